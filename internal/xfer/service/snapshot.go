package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jimyag/xfer/internal/xfer/config"
	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/internal/xfer/metrics"
	"github.com/jimyag/xfer/internal/xfer/repository"
	"github.com/jimyag/xfer/internal/xfer/repository/model"
	"github.com/jimyag/xfer/pkg/apierror"
	"github.com/jimyag/xfer/pkg/idgen"
	"github.com/jimyag/xfer/pkg/progress"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PoolReader 从存储池读取容量，*poolprobe.Client 实现了这个接口
type PoolReader interface {
	ReadPool(ctx context.Context, pool, unit string) (progress.Reading, error)
}

// SnapshotService 快照读数服务
type SnapshotService struct {
	cfg            *config.Config
	repo           *repository.Repository
	sessionService *SessionService
	snapshotRepo   repository.SnapshotRepository
	historyRepo    repository.HistoryRepository
	probe          PoolReader
	idGen          *idgen.Generator
	now            func() time.Time
}

// NewSnapshotService 创建快照服务，probe 为 nil 时 ProbeSnapshot 不可用
func NewSnapshotService(
	cfg *config.Config,
	repo *repository.Repository,
	sessionService *SessionService,
	probe PoolReader,
) *SnapshotService {
	return &SnapshotService{
		cfg:            cfg,
		repo:           repo,
		sessionService: sessionService,
		snapshotRepo:   repository.NewSnapshotRepository(repo.DB()),
		historyRepo:    repository.NewHistoryRepository(repo.DB()),
		probe:          probe,
		idGen:          idgen.New(),
		now:            time.Now,
	}
}

// UpdateSnapshot 直接写入快照的 free 和 used
func (s *SnapshotService) UpdateSnapshot(ctx context.Context, req *entity.UpdateSnapshotRequest) (*entity.UpdateSnapshotResponse, error) {
	session, err := s.sessionService.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshotRepo.GetByID(ctx, req.SnapshotID)
	if err != nil {
		return nil, s.snapshotLookupError(req.SnapshotID, err)
	}
	if snap.SessionID != session.ID {
		return nil, apierror.WrapError(apierror.ErrSnapshotNotFound,
			fmt.Sprintf("snapshot %q does not belong to the current session", req.SnapshotID), nil)
	}

	snap.Free = *req.Free
	snap.Used = *req.Used
	return s.record(ctx, session, snap, req.ObservedAt, metrics.SourceManual)
}

// UpdateFreeSpace 按剩余空间更新快照，used = total - free
func (s *SnapshotService) UpdateFreeSpace(ctx context.Context, req *entity.UpdateFreeSpaceRequest) (*entity.UpdateSnapshotResponse, error) {
	session, err := s.sessionService.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshotRepo.GetByName(ctx, session.ID, req.SnapshotName)
	if err != nil {
		return nil, s.snapshotLookupError(req.SnapshotName, err)
	}

	free := *req.Free
	if free < 0 || free > snap.Total {
		return nil, apierror.WrapError(apierror.ErrFreeSpaceOutOfRange,
			fmt.Sprintf("free space %g is outside [0, %g] for snapshot %q", free, snap.Total, snap.Name), nil)
	}

	snap.Free = free
	snap.Used = snap.Total - free
	return s.record(ctx, session, snap, req.ObservedAt, metrics.SourceFreeSpace)
}

// ProbeSnapshot 从快照对应的 libvirt 存储池读取容量并记录
func (s *SnapshotService) ProbeSnapshot(ctx context.Context, req *entity.ProbeSnapshotRequest) (*entity.UpdateSnapshotResponse, error) {
	logger := zerolog.Ctx(ctx)

	pool, ok := s.cfg.Pools[req.SnapshotName]
	if s.probe == nil || !ok {
		return nil, apierror.WrapError(apierror.ErrProbeNotConfigured,
			fmt.Sprintf("no storage pool is configured for snapshot %q", req.SnapshotName), nil)
	}

	session, err := s.sessionService.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshotRepo.GetByName(ctx, session.ID, req.SnapshotName)
	if err != nil {
		return nil, s.snapshotLookupError(req.SnapshotName, err)
	}

	reading, err := s.probe.ReadPool(ctx, pool, s.cfg.Unit)
	if err != nil {
		logger.Error().Err(err).Str("pool", pool).Str("snapshot", snap.Name).Msg("Failed to read storage pool")
		return nil, apierror.WrapError(apierror.ErrProbeFailed,
			fmt.Sprintf("failed to read storage pool %q", pool), err)
	}

	snap.Total = reading.Total
	snap.Free = reading.Free
	snap.Used = reading.Used
	return s.record(ctx, session, snap, req.ObservedAt, metrics.SourceProbe)
}

// record 在一个事务里保存快照、追加历史并刷新会话的 last_updated
//
// 历史记录归档的是本次写入后的新读数，不是更新前的旧值，
// 这样每条历史都对应一个观测时间点，速率估算直接使用
func (s *SnapshotService) record(
	ctx context.Context,
	session *model.Session,
	snap *model.Snapshot,
	observedAt string,
	source string,
) (*entity.UpdateSnapshotResponse, error) {
	logger := zerolog.Ctx(ctx)

	observed, err := progress.ParseTimePoint(observedAt)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err)
	}
	if observed.IsZero() {
		observed = s.now()
	}
	observed = observed.UTC()

	historyID, err := s.idGen.GenerateHistoryID()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to generate history ID", err)
	}
	entry := &model.SnapshotHistory{
		ID:           historyID,
		SessionID:    session.ID,
		SnapshotName: snap.Name,
		Total:        snap.Total,
		Free:         snap.Free,
		Used:         snap.Used,
		ObservedAt:   observed,
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := repository.NewSnapshotRepository(tx).Update(ctx, snap); err != nil {
			return fmt.Errorf("update snapshot: %w", err)
		}
		if err := repository.NewHistoryRepository(tx).Create(ctx, entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		// 重新读取会话，避免覆盖并发写入的其他字段
		sessionRepo := repository.NewSessionRepository(tx)
		current, err := sessionRepo.GetByID(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		current.LastUpdated = &observed
		if err := sessionRepo.Update(ctx, current); err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to record snapshot reading", err)
	}

	metrics.ObserveSnapshot(snap.Name, source, snap.Used)
	logger.Info().
		Str("snapshot", snap.Name).
		Str("source", source).
		Float64("total", snap.Total).
		Float64("free", snap.Free).
		Float64("used", snap.Used).
		Time("observedAt", observed).
		Msg("Snapshot reading recorded")

	snapEntity, err := snapshotModelToEntity(snap)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert snapshot", err)
	}
	historyEntity, err := historyModelToEntity(entry)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert history", err)
	}
	return &entity.UpdateSnapshotResponse{
		Snapshot: snapEntity,
		History:  *historyEntity,
	}, nil
}

// ListHistory 列出快照历史，新的在前
func (s *SnapshotService) ListHistory(ctx context.Context, req *entity.ListHistoryRequest) ([]entity.HistoryEntry, error) {
	session, err := s.sessionService.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}

	var entries []*model.SnapshotHistory
	if req.SnapshotName == "" {
		entries, err = s.historyRepo.ListRecent(ctx, session.ID, limit)
	} else {
		entries, err = s.historyRepo.ListBySnapshot(ctx, session.ID, req.SnapshotName, limit)
	}
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list history", err)
	}

	out := make([]entity.HistoryEntry, 0, len(entries))
	for _, m := range entries {
		e, err := historyModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert history", err)
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *SnapshotService) snapshotLookupError(key string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.WrapError(apierror.ErrSnapshotNotFound,
			fmt.Sprintf("snapshot %q does not exist", key), err)
	}
	return apierror.WrapError(apierror.ErrInternalError, "Failed to get snapshot", err)
}
