package model

import (
	"time"

	"gorm.io/gorm"
)

// Job 会话内的传输任务表
type Job struct {
	ID        string         `gorm:"primaryKey;type:text;column:id" json:"id"`                                  // job-{id}
	SessionID string         `gorm:"type:text;not null;index:idx_jobs_session_id;column:session_id" json:"session_id"` // 关联 sessions.id
	Name      string         `gorm:"type:text;not null;column:name" json:"name"`
	StartTime string         `gorm:"type:text;not null;default:'';column:start_time" json:"start_time"` // 用户输入的原始文本，例如 17:55
	CreatedAt time.Time      `gorm:"type:datetime;not null;index:idx_jobs_created_at;column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"type:datetime;index:idx_jobs_deleted_at;column:deleted_at" json:"deleted_at,omitempty"` // 软删除
}

// TableName 指定表名
func (Job) TableName() string {
	return "jobs"
}
