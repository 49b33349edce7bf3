package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jimyag/xfer/internal/xfer/config"
	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/internal/xfer/repository"
	"github.com/jimyag/xfer/pkg/poolprobe"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

// TestServices 包含测试所需的所有服务和依赖
type TestServices struct {
	Config          *config.Config
	Repo            *repository.Repository
	MockConn        *poolprobe.MockConn
	SessionService  *SessionService
	SnapshotService *SnapshotService
	JobService      *JobService
}

func testConfig() *config.Config {
	return &config.Config{
		Address:         "127.0.0.1:0",
		LogLevel:        "debug",
		Unit:            "TB",
		PercentPolicy:   "ratio",
		HistoryLimit:    10,
		SourceName:      "A",
		DestinationName: "B",
		Pools:           map[string]string{"B": "pool-b"},
		Seed: config.Seed{
			SessionName: "Default Session",
			Snapshots: []config.SeedSnapshot{
				{Name: "A", Total: 8.0, Free: 2.5, Used: 5.5},
				{Name: "B", Total: 8.0, Free: 7.8, Used: 0.2},
			},
			Jobs: []config.SeedJob{{Name: "Backup job", StartTime: "17:55"}},
		},
	}
}

// setupTestServices 为每个测试用例创建独立的数据库和服务实例
func setupTestServices(t *testing.T, mutate ...func(*config.Config)) *TestServices {
	t.Helper()

	cfg := testConfig()
	for _, fn := range mutate {
		fn(cfg)
	}

	tmpDir := t.TempDir()
	repo, err := repository.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repo.Close()
		_ = os.RemoveAll(tmpDir)
	})

	mockConn := poolprobe.NewMockConn()
	sessionService := NewSessionService(cfg, repo)
	snapshotService := NewSnapshotService(cfg, repo, sessionService, poolprobe.NewWithConn(mockConn))

	return &TestServices{
		Config:          cfg,
		Repo:            repo,
		MockConn:        mockConn,
		SessionService:  sessionService,
		SnapshotService: snapshotService,
		JobService:      NewJobService(repo, sessionService),
	}
}

// setFree 以 observedAt 时间写入一个快照的剩余空间
func (ts *TestServices) setFree(t *testing.T, name string, free float64, observedAt time.Time) *entity.UpdateSnapshotResponse {
	t.Helper()
	resp, err := ts.SnapshotService.UpdateFreeSpace(context.Background(), &entity.UpdateFreeSpaceRequest{
		SnapshotName: name,
		Free:         &free,
		ObservedAt:   observedAt.Format(time.RFC3339),
	})
	require.NoError(t, err)
	return resp
}

func ptr[T any](v T) *T {
	return &v
}
