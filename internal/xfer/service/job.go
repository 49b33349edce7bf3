package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/internal/xfer/repository"
	"github.com/jimyag/xfer/internal/xfer/repository/model"
	"github.com/jimyag/xfer/pkg/apierror"
	"github.com/jimyag/xfer/pkg/idgen"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// JobService 传输任务服务
type JobService struct {
	sessionService *SessionService
	jobRepo        repository.JobRepository
	idGen          *idgen.Generator
}

// NewJobService 创建任务服务
func NewJobService(repo *repository.Repository, sessionService *SessionService) *JobService {
	return &JobService{
		sessionService: sessionService,
		jobRepo:        repository.NewJobRepository(repo.DB()),
		idGen:          idgen.New(),
	}
}

// AddJob 向当前会话添加任务
func (s *JobService) AddJob(ctx context.Context, req *entity.AddJobRequest) (*entity.Job, error) {
	logger := zerolog.Ctx(ctx)

	session, err := s.sessionService.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	jobID, err := s.idGen.GenerateJobID()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to generate job ID", err)
	}

	job := &model.Job{
		ID:        jobID,
		SessionID: session.ID,
		Name:      req.Name,
		StartTime: req.StartTime,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to save job", err)
	}
	logger.Info().Str("jobID", jobID).Str("name", job.Name).Msg("Job added")

	out, err := jobModelToEntity(job)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert job", err)
	}
	return out, nil
}

// RemoveJob 软删除当前会话的任务
func (s *JobService) RemoveJob(ctx context.Context, req *entity.RemoveJobRequest) error {
	logger := zerolog.Ctx(ctx)

	session, err := s.sessionService.CurrentSession(ctx)
	if err != nil {
		return err
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && job.SessionID != session.ID) {
		return apierror.WrapError(apierror.ErrJobNotFound, fmt.Sprintf("job %q does not exist", req.JobID), err)
	}
	if err != nil {
		return apierror.WrapError(apierror.ErrInternalError, "Failed to get job", err)
	}

	if err := s.jobRepo.Delete(ctx, job.ID); err != nil {
		return apierror.WrapError(apierror.ErrInternalError, "Failed to delete job", err)
	}
	logger.Info().Str("jobID", job.ID).Msg("Job removed")
	return nil
}

// ListJobs 按添加顺序列出当前会话的任务
func (s *JobService) ListJobs(ctx context.Context) ([]entity.Job, error) {
	session, err := s.sessionService.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list jobs", err)
	}

	out := make([]entity.Job, 0, len(jobs))
	for _, m := range jobs {
		e, err := jobModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert job", err)
		}
		out = append(out, *e)
	}
	return out, nil
}
