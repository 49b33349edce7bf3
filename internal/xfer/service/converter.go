// Package service 提供业务逻辑层的服务实现
package service

import (
	"time"

	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/internal/xfer/repository/model"
	"github.com/jimyag/xfer/pkg/progress"
	"github.com/jinzhu/copier"
)

// copyOption 时间字段统一转成 RFC3339 字符串，空时间转成空字符串
var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				return formatTime(src.(time.Time)), nil
			},
		},
		{
			SrcType: &time.Time{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				t := src.(*time.Time)
				if t == nil {
					return "", nil
				}
				return formatTime(*t), nil
			},
		},
	},
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// sessionModelToEntity 将 model.Session 转换为 entity.Session，不包含快照、任务和历史
func sessionModelToEntity(m *model.Session) (*entity.Session, error) {
	e := &entity.Session{}
	if err := copier.CopyWithOption(e, m, copyOption); err != nil {
		return nil, err
	}
	e.Snapshots = []entity.Snapshot{}
	e.Jobs = []entity.Job{}
	e.History = []entity.HistoryEntry{}
	return e, nil
}

// snapshotModelToEntity 将 model.Snapshot 转换为 entity.Snapshot
func snapshotModelToEntity(m *model.Snapshot) (*entity.Snapshot, error) {
	e := &entity.Snapshot{}
	if err := copier.CopyWithOption(e, m, copyOption); err != nil {
		return nil, err
	}
	return e, nil
}

// historyModelToEntity 将 model.SnapshotHistory 转换为 entity.HistoryEntry
func historyModelToEntity(m *model.SnapshotHistory) (*entity.HistoryEntry, error) {
	e := &entity.HistoryEntry{}
	if err := copier.CopyWithOption(e, m, copyOption); err != nil {
		return nil, err
	}
	return e, nil
}

// jobModelToEntity 将 model.Job 转换为 entity.Job
func jobModelToEntity(m *model.Job) (*entity.Job, error) {
	e := &entity.Job{}
	if err := copier.CopyWithOption(e, m, copyOption); err != nil {
		return nil, err
	}
	return e, nil
}

// snapshotReading 取出快照读数用于进度计算
func snapshotReading(m *model.Snapshot) progress.Reading {
	if m == nil {
		return progress.Reading{}
	}
	return progress.Reading{Total: m.Total, Free: m.Free, Used: m.Used}
}

// historyToProgress 将历史记录转换为速率估算的输入
func historyToProgress(entries []*model.SnapshotHistory) []progress.HistoryEntry {
	out := make([]progress.HistoryEntry, 0, len(entries))
	for _, m := range entries {
		out = append(out, progress.HistoryEntry{
			Volume:     m.SnapshotName,
			Reading:    progress.Reading{Total: m.Total, Free: m.Free, Used: m.Used},
			ObservedAt: m.ObservedAt,
		})
	}
	return out
}

// optionalTime 将可空时间转成零值表示未设置
func optionalTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
