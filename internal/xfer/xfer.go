// Package xfer 提供 xfer 服务器的主入口和初始化逻辑
package xfer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jimmicro/grace"
	"github.com/jimyag/xfer/internal/xfer/api"
	"github.com/jimyag/xfer/internal/xfer/config"
	"github.com/jimyag/xfer/internal/xfer/repository"
	"github.com/jimyag/xfer/internal/xfer/service"
	"github.com/jimyag/xfer/pkg/poolprobe"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg   *config.Config
	api   *api.API
	repo  *repository.Repository
	probe *poolprobe.Client
}

func New(cfg *config.Config) (*Server, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	// 1. 创建 Repository
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}
	logger.Info().Str("path", cfg.DBPath).Msg("Database opened")

	// 2. 配置了存储池时连接 libvirt
	var (
		probe      *poolprobe.Client
		poolReader service.PoolReader
	)
	if len(cfg.Pools) > 0 {
		probe, err = poolprobe.New(cfg.LibvirtURI)
		if err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("connect libvirt: %w", err)
		}
		poolReader = probe
		logger.Info().Str("uri", cfg.LibvirtURI).Int("pools", len(cfg.Pools)).Msg("Libvirt connected")
	}

	// 3. 创建 Service
	sessionService := service.NewSessionService(cfg, repo)
	snapshotService := service.NewSnapshotService(cfg, repo, sessionService, poolReader)
	jobService := service.NewJobService(repo, sessionService)

	// 4. 创建 API
	apiInstance, err := api.New(cfg, logger, sessionService, snapshotService, jobService)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	return &Server{
		cfg:   cfg,
		api:   apiInstance,
		repo:  repo,
		probe: probe,
	}, nil
}

func (s *Server) Run(ctx context.Context) error {
	services := []grace.Grace{
		s.api,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return s.close()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.api.Shutdown(ctx); err != nil {
		return err
	}
	return s.close()
}

// close 释放数据库和 libvirt 连接
func (s *Server) close() error {
	if s.probe != nil {
		if err := s.probe.Close(); err != nil {
			zerolog.DefaultContextLogger.Warn().Err(err).Msg("Failed to disconnect libvirt")
		}
		s.probe = nil
	}
	if s.repo != nil {
		err := s.repo.Close()
		s.repo = nil
		return err
	}
	return nil
}

// Name 实现 grace.Grace 接口
func (s *Server) Name() string {
	return "xfer Server"
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}
