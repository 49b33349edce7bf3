package model

import (
	"time"
)

// Snapshot 快照当前读数表，每个会话每个名称一行
type Snapshot struct {
	ID        string    `gorm:"primaryKey;type:text;column:id" json:"id"`                                          // snap-{id}
	SessionID string    `gorm:"type:text;not null;index:idx_snapshots_session_id;column:session_id" json:"session_id"` // 关联 sessions.id
	Name      string    `gorm:"type:text;not null;column:name" json:"name"`                                        // A, B
	Total     float64   `gorm:"type:real;not null;column:total" json:"total"`
	Free      float64   `gorm:"type:real;not null;column:free" json:"free"`
	Used      float64   `gorm:"type:real;not null;column:used" json:"used"`
	CreatedAt time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Snapshot) TableName() string {
	return "snapshots"
}
