package repository

import (
	"context"

	"github.com/jimyag/xfer/internal/xfer/repository/model"
	"gorm.io/gorm"
)

// SnapshotRepository 快照仓库接口
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *model.Snapshot) error
	GetByID(ctx context.Context, id string) (*model.Snapshot, error)
	GetByName(ctx context.Context, sessionID, name string) (*model.Snapshot, error)
	ListBySession(ctx context.Context, sessionID string) ([]*model.Snapshot, error)
	Update(ctx context.Context, snapshot *model.Snapshot) error
}

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository 创建快照仓库
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Create 创建快照
func (r *snapshotRepository) Create(ctx context.Context, snapshot *model.Snapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// GetByID 根据 ID 获取快照
func (r *snapshotRepository) GetByID(ctx context.Context, id string) (*model.Snapshot, error) {
	var snapshot model.Snapshot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetByName 根据会话和名称获取快照
func (r *snapshotRepository) GetByName(ctx context.Context, sessionID, name string) (*model.Snapshot, error) {
	var snapshot model.Snapshot
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND name = ?", sessionID, name).
		First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ListBySession 按名称顺序列出会话的快照
func (r *snapshotRepository) ListBySession(ctx context.Context, sessionID string) ([]*model.Snapshot, error) {
	var snapshots []*model.Snapshot
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("name ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Update 更新快照
func (r *snapshotRepository) Update(ctx context.Context, snapshot *model.Snapshot) error {
	return r.db.WithContext(ctx).Save(snapshot).Error
}
