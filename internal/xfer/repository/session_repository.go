package repository

import (
	"context"

	"github.com/jimyag/xfer/internal/xfer/repository/model"
	"gorm.io/gorm"
)

// SessionRepository 会话仓库接口
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	GetLatest(ctx context.Context) (*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话仓库
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create 创建会话
func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByID 根据 ID 获取会话
func (r *sessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetLatest 获取最近创建的会话，没有会话时返回 gorm.ErrRecordNotFound
func (r *sessionRepository) GetLatest(ctx context.Context) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Update 更新会话
func (r *sessionRepository) Update(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}
