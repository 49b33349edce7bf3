package entity

import (
	"errors"
	"strings"
)

// Job 描述会话内的一个传输任务
type Job struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AddJobRequest 添加任务请求
type AddJobRequest struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time,omitempty"`
}

// IsValid 名称去掉首尾空白后不能为空
func (r *AddJobRequest) IsValid() error {
	r.Name = strings.TrimSpace(r.Name)
	r.StartTime = strings.TrimSpace(r.StartTime)
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type AddJobResponse struct {
	Job *Job `json:"job"`
}

// RemoveJobRequest 删除任务请求
type RemoveJobRequest struct {
	JobID string `json:"job_id" binding:"required"`
}

type RemoveJobResponse struct {
	Message string `json:"message"`
}

// ListJobsRequest 列举任务请求
type ListJobsRequest struct{}

type ListJobsResponse struct {
	Jobs []Job `json:"jobs"`
}
