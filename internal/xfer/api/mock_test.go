package api

import (
	"context"

	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/stretchr/testify/mock"
)

// MockSessionService 是 SessionService 的 mock 实现
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) DescribeSession(ctx context.Context) (*entity.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionService) UpdateSession(ctx context.Context, req *entity.UpdateSessionRequest) (*entity.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionService) DescribeProgress(ctx context.Context, req *entity.DescribeProgressRequest) (*entity.Progress, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Progress), args.Error(1)
}

// MockSnapshotService 是 SnapshotService 的 mock 实现
type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) UpdateSnapshot(ctx context.Context, req *entity.UpdateSnapshotRequest) (*entity.UpdateSnapshotResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UpdateSnapshotResponse), args.Error(1)
}

func (m *MockSnapshotService) UpdateFreeSpace(ctx context.Context, req *entity.UpdateFreeSpaceRequest) (*entity.UpdateSnapshotResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UpdateSnapshotResponse), args.Error(1)
}

func (m *MockSnapshotService) ProbeSnapshot(ctx context.Context, req *entity.ProbeSnapshotRequest) (*entity.UpdateSnapshotResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UpdateSnapshotResponse), args.Error(1)
}

func (m *MockSnapshotService) ListHistory(ctx context.Context, req *entity.ListHistoryRequest) ([]entity.HistoryEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.HistoryEntry), args.Error(1)
}

// MockJobService 是 JobService 的 mock 实现
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) AddJob(ctx context.Context, req *entity.AddJobRequest) (*entity.Job, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Job), args.Error(1)
}

func (m *MockJobService) RemoveJob(ctx context.Context, req *entity.RemoveJobRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockJobService) ListJobs(ctx context.Context) ([]entity.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Job), args.Error(1)
}
