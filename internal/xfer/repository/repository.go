// Package repository 提供数据持久化层实现
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jimyag/xfer/internal/xfer/repository/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯 Go SQLite 驱动，不需要 CGO
)

// Repository 数据库仓库
type Repository struct {
	db *gorm.DB
}

// New 创建新的 Repository 实例
func New(dbPath string) (*Repository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite 只允许一个写者，单连接避免 database is locked
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Session{},
		&model.Snapshot{},
		&model.SnapshotHistory{},
		&model.Job{},
	); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	if err := createIndexes(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return &Repository{db: db}, nil
}

// DB 返回 GORM 数据库实例（用于 Repository 实现）
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithContext 返回带上下文的数据库实例
func (r *Repository) WithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Transaction 在一个事务中执行 fn，fn 返回错误时回滚
//
// fn 内只能使用 tx 构造的仓库，连接池只有一个连接
func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// Close 关闭数据库连接
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// createIndexes 创建额外的索引和唯一约束
func createIndexes(db *gorm.DB) error {
	// 同一会话内快照名称唯一
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_snapshots_session_name
		ON snapshots(session_id, name)
	`).Error; err != nil {
		return fmt.Errorf("create unique index on snapshots: %w", err)
	}

	// 速率计算按快照名称取最近读数
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_history_session_snapshot_observed
		ON snapshot_history(session_id, snapshot_name, observed_at)
	`).Error; err != nil {
		return fmt.Errorf("create index on snapshot_history: %w", err)
	}

	return nil
}
