package entity

import (
	"errors"
	"strings"

	"github.com/jimyag/xfer/pkg/progress"
)

// Session 描述一次传输会话
type Session struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	StartTime     string         `json:"start_time,omitempty"`
	LastUpdated   string         `json:"last_updated,omitempty"`
	ManualPercent string         `json:"manual_percent,omitempty"`
	Snapshots     []Snapshot     `json:"snapshots"`
	Jobs          []Job          `json:"jobs"`
	History       []HistoryEntry `json:"history"`
	CreatedAt     string         `json:"created_at,omitempty"`
}

// DescribeSessionRequest 查询当前会话请求
type DescribeSessionRequest struct{}

type DescribeSessionResponse struct {
	Session *Session `json:"session"`
}

// UpdateSessionRequest 更新会话请求
//
// 字段为 nil 表示不修改。start_time 一旦设置不可再改；
// last_updated 和 manual_percent 传空字符串表示清除
type UpdateSessionRequest struct {
	StartTime     *string `json:"start_time,omitempty"`
	LastUpdated   *string `json:"last_updated,omitempty"`
	ManualPercent *string `json:"manual_percent,omitempty"`
}

// IsValid 校验时间和百分比格式
func (r *UpdateSessionRequest) IsValid() error {
	if r.StartTime == nil && r.LastUpdated == nil && r.ManualPercent == nil {
		return errors.New("at least one of start_time, last_updated, manual_percent is required")
	}
	if r.StartTime != nil {
		if _, err := progress.ParseTimePoint(*r.StartTime); err != nil {
			return err
		}
	}
	if r.LastUpdated != nil {
		if _, err := progress.ParseTimePoint(*r.LastUpdated); err != nil {
			return err
		}
	}
	if r.ManualPercent != nil && strings.TrimSpace(*r.ManualPercent) != "" {
		if _, ok := progress.ParseManualPercent(*r.ManualPercent); !ok {
			return errors.New("manual_percent must be a number in (0, 100]")
		}
	}
	return nil
}

type UpdateSessionResponse struct {
	Session *Session `json:"session"`
}

// DescribeProgressRequest 计算进度请求
type DescribeProgressRequest struct {
	// ObservedAt 观测时间，为空时使用会话 last_updated，再为空使用当前时间
	ObservedAt string `json:"observed_at,omitempty"`
}

// IsValid 校验观测时间格式
func (r *DescribeProgressRequest) IsValid() error {
	_, err := progress.ParseTimePoint(r.ObservedAt)
	return err
}

// Progress 描述一次进度计算结果
type Progress struct {
	SessionID   string           `json:"session_id"`
	Source      string           `json:"source"`
	Destination string           `json:"destination"`
	StartTime   string           `json:"start_time,omitempty"`
	ObservedAt  string           `json:"observed_at"`
	Summary     progress.Summary `json:"summary"`
}

type DescribeProgressResponse struct {
	Progress *Progress `json:"progress"`
}
