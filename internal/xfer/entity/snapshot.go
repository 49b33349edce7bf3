package entity

import (
	"errors"
	"math"

	"github.com/jimyag/xfer/pkg/progress"
)

// Snapshot 描述快照当前读数
type Snapshot struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Total     float64 `json:"total"`
	Free      float64 `json:"free"`
	Used      float64 `json:"used"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// HistoryEntry 描述一条快照历史读数
type HistoryEntry struct {
	ID           string  `json:"id"`
	SnapshotName string  `json:"snapshot_name"`
	Total        float64 `json:"total"`
	Free         float64 `json:"free"`
	Used         float64 `json:"used"`
	ObservedAt   string  `json:"observed_at"`
}

// UpdateSnapshotRequest 直接写入快照的 free 和 used
type UpdateSnapshotRequest struct {
	SnapshotID string   `json:"snapshot_id" binding:"required"`
	Free       *float64 `json:"free" binding:"required"`
	Used       *float64 `json:"used" binding:"required"`
	ObservedAt string   `json:"observed_at,omitempty"`
}

// IsValid 校验容量非负和时间格式
func (r *UpdateSnapshotRequest) IsValid() error {
	if !validCapacity(*r.Free) || !validCapacity(*r.Used) {
		return errors.New("free and used must be finite non-negative numbers")
	}
	_, err := progress.ParseTimePoint(r.ObservedAt)
	return err
}

// UpdateFreeSpaceRequest 按剩余空间更新快照，used 由 total - free 得出
type UpdateFreeSpaceRequest struct {
	SnapshotName string   `json:"snapshot_name" binding:"required"`
	Free         *float64 `json:"free" binding:"required"`
	ObservedAt   string   `json:"observed_at,omitempty"`
}

// IsValid 校验容量和时间格式，上限由服务端按 total 校验
func (r *UpdateFreeSpaceRequest) IsValid() error {
	if math.IsNaN(*r.Free) || math.IsInf(*r.Free, 0) {
		return errors.New("free must be a finite number")
	}
	_, err := progress.ParseTimePoint(r.ObservedAt)
	return err
}

// ProbeSnapshotRequest 从 libvirt 存储池读取快照容量
type ProbeSnapshotRequest struct {
	SnapshotName string `json:"snapshot_name" binding:"required"`
	ObservedAt   string `json:"observed_at,omitempty"`
}

// IsValid 校验时间格式
func (r *ProbeSnapshotRequest) IsValid() error {
	_, err := progress.ParseTimePoint(r.ObservedAt)
	return err
}

// UpdateSnapshotResponse 更新快照的结果，History 是本次归档的读数
type UpdateSnapshotResponse struct {
	Snapshot *Snapshot    `json:"snapshot"`
	History  HistoryEntry `json:"history"`
}

// ListHistoryRequest 列举历史请求，SnapshotName 为空时返回所有快照的历史
type ListHistoryRequest struct {
	SnapshotName string `json:"snapshot_name,omitempty"`
	Limit        int    `json:"limit,omitempty" binding:"gte=0"`
}

type ListHistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

func validCapacity(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
