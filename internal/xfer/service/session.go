package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
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

// SessionService 传输会话服务
type SessionService struct {
	cfg          *config.Config
	repo         *repository.Repository
	sessionRepo  repository.SessionRepository
	snapshotRepo repository.SnapshotRepository
	historyRepo  repository.HistoryRepository
	jobRepo      repository.JobRepository
	idGen        *idgen.Generator
	now          func() time.Time

	// seedMu 保证默认会话只创建一次
	seedMu sync.Mutex
}

// NewSessionService 创建会话服务
func NewSessionService(cfg *config.Config, repo *repository.Repository) *SessionService {
	return &SessionService{
		cfg:          cfg,
		repo:         repo,
		sessionRepo:  repository.NewSessionRepository(repo.DB()),
		snapshotRepo: repository.NewSnapshotRepository(repo.DB()),
		historyRepo:  repository.NewHistoryRepository(repo.DB()),
		jobRepo:      repository.NewJobRepository(repo.DB()),
		idGen:        idgen.New(),
		now:          time.Now,
	}
}

// CurrentSession 返回最近的会话，数据库为空时按配置创建默认会话
func (s *SessionService) CurrentSession(ctx context.Context) (*model.Session, error) {
	session, err := s.sessionRepo.GetLatest(ctx)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to get session", err)
	}

	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	// 加锁后再查一次，其他请求可能已经创建
	session, err = s.sessionRepo.GetLatest(ctx)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to get session", err)
	}

	session, err = s.seed(ctx)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to create default session", err)
	}
	return session, nil
}

// seed 创建默认会话、源和目标快照以及初始任务
func (s *SessionService) seed(ctx context.Context) (*model.Session, error) {
	logger := zerolog.Ctx(ctx)
	seed := s.cfg.Seed

	sessionID, err := s.idGen.GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}
	name := seed.SessionName
	if name == "" {
		name = "Default Session"
	}
	session := &model.Session{ID: sessionID, Name: name}

	readings := make(map[string]config.SeedSnapshot, len(seed.Snapshots))
	names := make([]string, 0, len(seed.Snapshots)+2)
	for _, snap := range seed.Snapshots {
		if _, ok := readings[snap.Name]; !ok {
			names = append(names, snap.Name)
		}
		readings[snap.Name] = snap
	}
	// 源和目标快照必须存在
	for _, required := range []string{s.cfg.SourceName, s.cfg.DestinationName} {
		if _, ok := readings[required]; !ok {
			readings[required] = config.SeedSnapshot{Name: required}
			names = append(names, required)
		}
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := repository.NewSessionRepository(tx).Create(ctx, session); err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		snapshotRepo := repository.NewSnapshotRepository(tx)
		for _, name := range names {
			r := readings[name]
			id, err := s.idGen.GenerateSnapshotID()
			if err != nil {
				return fmt.Errorf("generate snapshot ID: %w", err)
			}
			if err := snapshotRepo.Create(ctx, &model.Snapshot{
				ID:        id,
				SessionID: sessionID,
				Name:      name,
				Total:     r.Total,
				Free:      r.Free,
				Used:      r.Used,
			}); err != nil {
				return fmt.Errorf("create snapshot %s: %w", name, err)
			}
		}

		jobRepo := repository.NewJobRepository(tx)
		for _, j := range seed.Jobs {
			id, err := s.idGen.GenerateJobID()
			if err != nil {
				return fmt.Errorf("generate job ID: %w", err)
			}
			if err := jobRepo.Create(ctx, &model.Job{
				ID:        id,
				SessionID: sessionID,
				Name:      j.Name,
				StartTime: j.StartTime,
			}); err != nil {
				return fmt.Errorf("create job %s: %w", j.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("sessionID", sessionID).
		Strs("snapshots", names).
		Int("jobs", len(seed.Jobs)).
		Msg("Default session created")
	return session, nil
}

// DescribeSession 返回当前会话及其快照、任务和最近历史
func (s *SessionService) DescribeSession(ctx context.Context) (*entity.Session, error) {
	session, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, session)
}

func (s *SessionService) describe(ctx context.Context, session *model.Session) (*entity.Session, error) {
	out, err := sessionModelToEntity(session)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert session", err)
	}

	snapshots, err := s.snapshotRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list snapshots", err)
	}
	for _, m := range snapshots {
		e, err := snapshotModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert snapshot", err)
		}
		out.Snapshots = append(out.Snapshots, *e)
	}

	jobs, err := s.jobRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list jobs", err)
	}
	for _, m := range jobs {
		e, err := jobModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert job", err)
		}
		out.Jobs = append(out.Jobs, *e)
	}

	history, err := s.historyRepo.ListRecent(ctx, session.ID, s.cfg.HistoryLimit)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list history", err)
	}
	for _, m := range history {
		e, err := historyModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert history", err)
		}
		out.History = append(out.History, *e)
	}

	return out, nil
}

// UpdateSession 更新会话的开始时间、最近更新时间和手动百分比
//
// 会话在事务内重新读取，只改请求中给出的字段，不会覆盖并发写入的 last_updated
func (s *SessionService) UpdateSession(ctx context.Context, req *entity.UpdateSessionRequest) (*entity.Session, error) {
	logger := zerolog.Ctx(ctx)

	current, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	var start, updated time.Time
	if req.StartTime != nil {
		if start, err = progress.ParseTimePoint(*req.StartTime); err != nil {
			return nil, apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err)
		}
	}
	if req.LastUpdated != nil {
		if updated, err = progress.ParseTimePoint(*req.LastUpdated); err != nil {
			return nil, apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err)
		}
	}
	var manual string
	if req.ManualPercent != nil {
		manual = strings.TrimSpace(*req.ManualPercent)
		if manual != "" {
			if _, ok := progress.ParseManualPercent(manual); !ok {
				return nil, apierror.WrapError(apierror.ErrInvalidParameter,
					fmt.Sprintf("manual percent %q must be a number in (0, 100]", manual), nil)
			}
		}
	}

	var session *model.Session
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		sessionRepo := repository.NewSessionRepository(tx)
		found, err := sessionRepo.GetByID(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		session = found

		if req.StartTime != nil {
			switch {
			case session.StartTime == nil:
				if !start.IsZero() {
					start = start.UTC()
					session.StartTime = &start
				}
			case start.IsZero() || !start.Equal(*session.StartTime):
				return apierror.WrapError(apierror.ErrStartTimeLocked,
					fmt.Sprintf("start time is already set to %s", session.StartTime.Format(time.RFC3339)), nil)
			}
		}

		if req.LastUpdated != nil {
			if updated.IsZero() {
				session.LastUpdated = nil
			} else {
				updated = updated.UTC()
				session.LastUpdated = &updated
			}
		}

		if req.ManualPercent != nil {
			session.ManualPercent = manual
		}

		if err := sessionRepo.Update(ctx, session); err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		return nil
	})
	if err != nil {
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to update session", err)
	}

	logger.Info().
		Str("sessionID", session.ID).
		Bool("startTimeSet", session.StartTime != nil).
		Str("manualPercent", session.ManualPercent).
		Msg("Session updated")

	return s.describe(ctx, session)
}

// DescribeProgress 计算当前会话的完成百分比、ETA 和速率，并刷新指标
//
// 观测时间依次取请求的 observed_at、会话的 last_updated、当前时间
func (s *SessionService) DescribeProgress(ctx context.Context, req *entity.DescribeProgressRequest) (*entity.Progress, error) {
	session, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	observed, err := progress.ParseTimePoint(req.ObservedAt)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err)
	}
	if observed.IsZero() {
		observed = optionalTime(session.LastUpdated)
	}
	if observed.IsZero() {
		observed = s.now()
	}

	source, err := s.findSnapshot(ctx, session.ID, s.cfg.SourceName)
	if err != nil {
		return nil, err
	}
	destination, err := s.findSnapshot(ctx, session.ID, s.cfg.DestinationName)
	if err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ListBySnapshot(ctx, session.ID, s.cfg.DestinationName, s.cfg.HistoryLimit)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list history", err)
	}

	summary := progress.Summarize(progress.Input{
		Source:        snapshotReading(source),
		Destination:   snapshotReading(destination),
		Policy:        s.cfg.PolicyOrDefault(),
		ManualPercent: session.ManualPercent,
		Start:         optionalTime(session.StartTime),
		Observed:      observed,
		History:       historyToProgress(history),
		Volume:        s.cfg.DestinationName,
		Unit:          s.cfg.Unit,
	})
	metrics.ObserveProgress(summary, observed)

	zerolog.Ctx(ctx).Debug().
		Str("sessionID", session.ID).
		Float64("effectivePercent", summary.EffectivePercent).
		Str("remaining", summary.Remaining).
		Str("rate", summary.RateText).
		Msg("Progress computed")

	return &entity.Progress{
		SessionID:   session.ID,
		Source:      s.cfg.SourceName,
		Destination: s.cfg.DestinationName,
		StartTime:   formatTime(optionalTime(session.StartTime)),
		ObservedAt:  formatTime(observed),
		Summary:     summary,
	}, nil
}

// findSnapshot 按名称查快照，不存在时返回 nil
func (s *SessionService) findSnapshot(ctx context.Context, sessionID, name string) (*model.Snapshot, error) {
	snap, err := s.snapshotRepo.GetByName(ctx, sessionID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to get snapshot", err)
	}
	return snap, nil
}
