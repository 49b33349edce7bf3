package model

import (
	"time"
)

// SnapshotHistory 快照读数历史表，只追加
type SnapshotHistory struct {
	ID           string    `gorm:"primaryKey;type:text;column:id" json:"id"`                                                 // hist-{id}
	SessionID    string    `gorm:"type:text;not null;index:idx_history_session_id;column:session_id" json:"session_id"`      // 关联 sessions.id
	SnapshotName string    `gorm:"type:text;not null;index:idx_history_snapshot_name;column:snapshot_name" json:"snapshot_name"`
	Total        float64   `gorm:"type:real;not null;column:total" json:"total"`
	Free         float64   `gorm:"type:real;not null;column:free" json:"free"`
	Used         float64   `gorm:"type:real;not null;column:used" json:"used"`
	ObservedAt   time.Time `gorm:"type:datetime;not null;index:idx_history_observed_at;column:observed_at" json:"observed_at"` // 读数时间
	CreatedAt    time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
}

// TableName 指定表名
func (SnapshotHistory) TableName() string {
	return "snapshot_history"
}
