package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/pkg/ginx"
	"github.com/rs/zerolog"
)

// SnapshotServiceInterface 定义快照服务接口
type SnapshotServiceInterface interface {
	UpdateSnapshot(ctx context.Context, req *entity.UpdateSnapshotRequest) (*entity.UpdateSnapshotResponse, error)
	UpdateFreeSpace(ctx context.Context, req *entity.UpdateFreeSpaceRequest) (*entity.UpdateSnapshotResponse, error)
	ProbeSnapshot(ctx context.Context, req *entity.ProbeSnapshotRequest) (*entity.UpdateSnapshotResponse, error)
	ListHistory(ctx context.Context, req *entity.ListHistoryRequest) ([]entity.HistoryEntry, error)
}

type Snapshot struct {
	snapshotService SnapshotServiceInterface
}

func NewSnapshot(snapshotService SnapshotServiceInterface) *Snapshot {
	return &Snapshot{
		snapshotService: snapshotService,
	}
}

func (s *Snapshot) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/update-snapshot", ginx.Adapt5(s.UpdateSnapshot))
	router.POST("/update-free-space", ginx.Adapt5(s.UpdateFreeSpace))
	router.POST("/probe-snapshot", ginx.Adapt5(s.ProbeSnapshot))
	router.POST("/list-history", ginx.Adapt5(s.ListHistory))
}

func (s *Snapshot) UpdateSnapshot(ctx *gin.Context, req *entity.UpdateSnapshotRequest) (*entity.UpdateSnapshotResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("snapshot_id", req.SnapshotID).
		Float64("free", *req.Free).
		Float64("used", *req.Used).
		Msg("API: UpdateSnapshot called")

	resp, err := s.snapshotService.UpdateSnapshot(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update snapshot")
		return nil, err
	}
	return resp, nil
}

func (s *Snapshot) UpdateFreeSpace(ctx *gin.Context, req *entity.UpdateFreeSpaceRequest) (*entity.UpdateSnapshotResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("snapshot_name", req.SnapshotName).
		Float64("free", *req.Free).
		Msg("API: UpdateFreeSpace called")

	resp, err := s.snapshotService.UpdateFreeSpace(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update free space")
		return nil, err
	}
	return resp, nil
}

func (s *Snapshot) ProbeSnapshot(ctx *gin.Context, req *entity.ProbeSnapshotRequest) (*entity.UpdateSnapshotResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("snapshot_name", req.SnapshotName).
		Msg("API: ProbeSnapshot called")

	resp, err := s.snapshotService.ProbeSnapshot(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to probe snapshot")
		return nil, err
	}
	return resp, nil
}

func (s *Snapshot) ListHistory(ctx *gin.Context, req *entity.ListHistoryRequest) (*entity.ListHistoryResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("snapshot_name", req.SnapshotName).
		Int("limit", req.Limit).
		Msg("API: ListHistory called")

	history, err := s.snapshotService.ListHistory(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list history")
		return nil, err
	}

	return &entity.ListHistoryResponse{
		History: history,
	}, nil
}
