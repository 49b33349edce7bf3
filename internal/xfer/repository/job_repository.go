package repository

import (
	"context"

	"github.com/jimyag/xfer/internal/xfer/repository/model"
	"gorm.io/gorm"
)

// JobRepository 任务仓库接口
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	ListBySession(ctx context.Context, sessionID string) ([]*model.Job, error)
	Delete(ctx context.Context, id string) error
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository 创建任务仓库
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create 创建任务
func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID 根据 ID 获取任务
func (r *jobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListBySession 按创建顺序列出会话的任务
func (r *jobRepository) ListBySession(ctx context.Context, sessionID string) ([]*model.Job, error) {
	var jobs []*model.Job
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Delete 软删除任务
func (r *jobRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Job{}, "id = ?", id).Error
}
