package repository

import (
	"context"

	"github.com/jimyag/xfer/internal/xfer/repository/model"
	"gorm.io/gorm"
)

// HistoryRepository 快照历史仓库接口
type HistoryRepository interface {
	Create(ctx context.Context, entry *model.SnapshotHistory) error
	// ListRecent 返回会话最近的 limit 条历史，新的在前
	ListRecent(ctx context.Context, sessionID string, limit int) ([]*model.SnapshotHistory, error)
	// ListBySnapshot 返回某个快照最近的 limit 条历史，新的在前，limit <= 0 表示不限制
	ListBySnapshot(ctx context.Context, sessionID, name string, limit int) ([]*model.SnapshotHistory, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository 创建快照历史仓库
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create 追加一条历史
func (r *historyRepository) Create(ctx context.Context, entry *model.SnapshotHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecent 列出会话最近的历史
func (r *historyRepository) ListRecent(ctx context.Context, sessionID string, limit int) ([]*model.SnapshotHistory, error) {
	var entries []*model.SnapshotHistory
	query := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("observed_at DESC").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListBySnapshot 列出某个快照的历史
func (r *historyRepository) ListBySnapshot(ctx context.Context, sessionID, name string, limit int) ([]*model.SnapshotHistory, error) {
	var entries []*model.SnapshotHistory
	query := r.db.WithContext(ctx).
		Where("session_id = ? AND snapshot_name = ?", sessionID, name).
		Order("observed_at DESC").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
