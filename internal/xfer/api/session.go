package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/pkg/ginx"
	"github.com/rs/zerolog"
)

// SessionServiceInterface 定义会话服务接口
type SessionServiceInterface interface {
	DescribeSession(ctx context.Context) (*entity.Session, error)
	UpdateSession(ctx context.Context, req *entity.UpdateSessionRequest) (*entity.Session, error)
	DescribeProgress(ctx context.Context, req *entity.DescribeProgressRequest) (*entity.Progress, error)
}

type Session struct {
	sessionService SessionServiceInterface
}

func NewSession(sessionService SessionServiceInterface) *Session {
	return &Session{
		sessionService: sessionService,
	}
}

func (s *Session) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/describe-session", ginx.Adapt5(s.DescribeSession))
	router.POST("/update-session", ginx.Adapt5(s.UpdateSession))
	router.POST("/describe-progress", ginx.Adapt5(s.DescribeProgress))
}

func (s *Session) DescribeSession(ctx *gin.Context, req *entity.DescribeSessionRequest) (*entity.DescribeSessionResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("API: DescribeSession called")

	session, err := s.sessionService.DescribeSession(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to describe session")
		return nil, err
	}

	return &entity.DescribeSessionResponse{
		Session: session,
	}, nil
}

func (s *Session) UpdateSession(ctx *gin.Context, req *entity.UpdateSessionRequest) (*entity.UpdateSessionResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Bool("start_time", req.StartTime != nil).
		Bool("last_updated", req.LastUpdated != nil).
		Bool("manual_percent", req.ManualPercent != nil).
		Msg("API: UpdateSession called")

	session, err := s.sessionService.UpdateSession(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update session")
		return nil, err
	}

	return &entity.UpdateSessionResponse{
		Session: session,
	}, nil
}

func (s *Session) DescribeProgress(ctx *gin.Context, req *entity.DescribeProgressRequest) (*entity.DescribeProgressResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("observed_at", req.ObservedAt).
		Msg("API: DescribeProgress called")

	p, err := s.sessionService.DescribeProgress(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to describe progress")
		return nil, err
	}

	return &entity.DescribeProgressResponse{
		Progress: p,
	}, nil
}
