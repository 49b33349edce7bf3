package model

import (
	"time"
)

// Session 传输会话表
type Session struct {
	ID            string     `gorm:"primaryKey;type:text;column:id" json:"id"`                        // ts-{id}
	Name          string     `gorm:"type:text;not null;column:name" json:"name"`                      // 会话名称
	StartTime     *time.Time `gorm:"type:datetime;column:start_time" json:"start_time"`               // 传输开始时间，设置后不可修改
	LastUpdated   *time.Time `gorm:"type:datetime;column:last_updated" json:"last_updated"`           // 最近一次读数时间
	ManualPercent string     `gorm:"type:text;not null;default:'';column:manual_percent" json:"manual_percent"` // 手动百分比，空表示未设置
	CreatedAt     time.Time  `gorm:"type:datetime;not null;index:idx_sessions_created_at;column:created_at" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Session) TableName() string {
	return "sessions"
}
