package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/pkg/ginx"
	"github.com/rs/zerolog"
)

// JobServiceInterface 定义任务服务接口
type JobServiceInterface interface {
	AddJob(ctx context.Context, req *entity.AddJobRequest) (*entity.Job, error)
	RemoveJob(ctx context.Context, req *entity.RemoveJobRequest) error
	ListJobs(ctx context.Context) ([]entity.Job, error)
}

type Job struct {
	jobService JobServiceInterface
}

func NewJob(jobService JobServiceInterface) *Job {
	return &Job{
		jobService: jobService,
	}
}

func (j *Job) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/add-job", ginx.Adapt5(j.AddJob))
	router.POST("/remove-job", ginx.Adapt5(j.RemoveJob))
	router.POST("/list-jobs", ginx.Adapt5(j.ListJobs))
}

func (j *Job) AddJob(ctx *gin.Context, req *entity.AddJobRequest) (*entity.AddJobResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("name", req.Name).
		Str("start_time", req.StartTime).
		Msg("API: AddJob called")

	job, err := j.jobService.AddJob(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to add job")
		return nil, err
	}

	return &entity.AddJobResponse{
		Job: job,
	}, nil
}

func (j *Job) RemoveJob(ctx *gin.Context, req *entity.RemoveJobRequest) (*entity.RemoveJobResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("job_id", req.JobID).
		Msg("API: RemoveJob called")

	if err := j.jobService.RemoveJob(ctx, req); err != nil {
		logger.Error().Err(err).Msg("Failed to remove job")
		return nil, err
	}

	return &entity.RemoveJobResponse{
		Message: "Job removed successfully",
	}, nil
}

func (j *Job) ListJobs(ctx *gin.Context, req *entity.ListJobsRequest) (*entity.ListJobsResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("API: ListJobs called")

	jobs, err := j.jobService.ListJobs(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list jobs")
		return nil, err
	}

	return &entity.ListJobsResponse{
		Jobs: jobs,
	}, nil
}
