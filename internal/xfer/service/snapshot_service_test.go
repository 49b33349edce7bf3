package service

import (
	"context"
	"testing"
	"time"

	"github.com/digitalocean/go-libvirt"
	"github.com/jimyag/xfer/internal/xfer/config"
	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/pkg/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotService_UpdateFreeSpace(t *testing.T) {
	t.Parallel()

	t.Run("used is total minus free", func(t *testing.T) {
		t.Parallel()
		ts := setupTestServices(t)

		resp := ts.setFree(t, "B", 5.25, baseTime)
		assert.Equal(t, "B", resp.Snapshot.Name)
		assert.Equal(t, 8.0, resp.Snapshot.Total)
		assert.Equal(t, 5.25, resp.Snapshot.Free)
		assert.Equal(t, 2.75, resp.Snapshot.Used)

		// 归档的是新读数
		assert.Equal(t, "B", resp.History.SnapshotName)
		assert.Equal(t, 2.75, resp.History.Used)
		assert.Equal(t, "2025-09-01T08:00:00Z", resp.History.ObservedAt)

		session, err := ts.SessionService.DescribeSession(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "2025-09-01T08:00:00Z", session.LastUpdated)
		assert.Equal(t, 2.75, session.Snapshots[1].Used)
	})

	t.Run("boundaries are accepted", func(t *testing.T) {
		t.Parallel()
		ts := setupTestServices(t)

		assert.Equal(t, 8.0, ts.setFree(t, "B", 0, baseTime).Snapshot.Used)
		assert.Equal(t, 0.0, ts.setFree(t, "B", 8, baseTime.Add(time.Minute)).Snapshot.Used)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		ts := setupTestServices(t)
		ctx := context.Background()

		tests := []struct {
			name    string
			req     *entity.UpdateFreeSpaceRequest
			wantErr *apierror.Error
		}{
			{
				name:    "negative",
				req:     &entity.UpdateFreeSpaceRequest{SnapshotName: "B", Free: ptr(-0.1)},
				wantErr: apierror.ErrFreeSpaceOutOfRange,
			},
			{
				name:    "above total",
				req:     &entity.UpdateFreeSpaceRequest{SnapshotName: "B", Free: ptr(8.01)},
				wantErr: apierror.ErrFreeSpaceOutOfRange,
			},
			{
				name:    "unknown snapshot",
				req:     &entity.UpdateFreeSpaceRequest{SnapshotName: "C", Free: ptr(1.0)},
				wantErr: apierror.ErrSnapshotNotFound,
			},
			{
				name:    "bad observed_at",
				req:     &entity.UpdateFreeSpaceRequest{SnapshotName: "B", Free: ptr(1.0), ObservedAt: "later"},
				wantErr: apierror.ErrInvalidParameter,
			},
		}
		for _, tt := range tests {
			_, err := ts.SnapshotService.UpdateFreeSpace(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr, tt.name)
		}

		history, err := ts.SnapshotService.ListHistory(ctx, &entity.ListHistoryRequest{})
		require.NoError(t, err)
		assert.Empty(t, history, "failed updates must not archive")
	})
}

func TestSnapshotService_UpdateSnapshot(t *testing.T) {
	t.Parallel()

	ts := setupTestServices(t)
	ts.SnapshotService.now = func() time.Time { return baseTime.Add(30 * time.Minute) }
	ctx := context.Background()

	session, err := ts.SessionService.DescribeSession(ctx)
	require.NoError(t, err)
	snapA := session.Snapshots[0]

	resp, err := ts.SnapshotService.UpdateSnapshot(ctx, &entity.UpdateSnapshotRequest{
		SnapshotID: snapA.ID,
		Free:       ptr(3.0),
		Used:       ptr(5.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, resp.Snapshot.Free)
	assert.Equal(t, 5.0, resp.Snapshot.Used)
	assert.Equal(t, 8.0, resp.Snapshot.Total)
	assert.Equal(t, "2025-09-01T08:30:00Z", resp.History.ObservedAt)

	_, err = ts.SnapshotService.UpdateSnapshot(ctx, &entity.UpdateSnapshotRequest{
		SnapshotID: "snap-missing",
		Free:       ptr(1.0),
		Used:       ptr(1.0),
	})
	assert.ErrorIs(t, err, apierror.ErrSnapshotNotFound)
}

func TestSnapshotService_ProbeSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("reads pool capacity", func(t *testing.T) {
		t.Parallel()
		ts := setupTestServices(t)

		pool := libvirt.StoragePool{Name: "pool-b"}
		ts.MockConn.On("StoragePoolLookupByName", "pool-b").Return(pool, nil)
		ts.MockConn.On("StoragePoolRefresh", pool, uint32(0)).Return(nil)
		ts.MockConn.On("StoragePoolGetInfo", pool).
			Return(uint8(2), uint64(8e12), uint64(2.75e12), uint64(5.25e12), nil)

		resp, err := ts.SnapshotService.ProbeSnapshot(context.Background(), &entity.ProbeSnapshotRequest{
			SnapshotName: "B",
			ObservedAt:   baseTime.Format(time.RFC3339),
		})
		require.NoError(t, err)
		assert.Equal(t, 8.0, resp.Snapshot.Total)
		assert.Equal(t, 5.25, resp.Snapshot.Free)
		assert.Equal(t, 2.75, resp.Snapshot.Used)
		assert.Equal(t, 2.75, resp.History.Used)
		ts.MockConn.AssertExpectations(t)
	})

	t.Run("pool error", func(t *testing.T) {
		t.Parallel()
		ts := setupTestServices(t)

		ts.MockConn.On("StoragePoolLookupByName", "pool-b").
			Return(libvirt.StoragePool{}, assert.AnError)

		_, err := ts.SnapshotService.ProbeSnapshot(context.Background(), &entity.ProbeSnapshotRequest{SnapshotName: "B"})
		assert.ErrorIs(t, err, apierror.ErrProbeFailed)
	})

	t.Run("snapshot without pool", func(t *testing.T) {
		t.Parallel()
		ts := setupTestServices(t)

		_, err := ts.SnapshotService.ProbeSnapshot(context.Background(), &entity.ProbeSnapshotRequest{SnapshotName: "A"})
		assert.ErrorIs(t, err, apierror.ErrProbeNotConfigured)
		ts.MockConn.AssertNotCalled(t, "StoragePoolLookupByName", "pool-b")
	})

	t.Run("probe disabled", func(t *testing.T) {
		t.Parallel()
		ts := setupTestServices(t, func(cfg *config.Config) { cfg.Pools = nil })
		svc := NewSnapshotService(ts.Config, ts.Repo, ts.SessionService, nil)

		_, err := svc.ProbeSnapshot(context.Background(), &entity.ProbeSnapshotRequest{SnapshotName: "B"})
		assert.ErrorIs(t, err, apierror.ErrProbeNotConfigured)
	})
}

func TestSnapshotService_ListHistory(t *testing.T) {
	t.Parallel()

	ts := setupTestServices(t)
	ctx := context.Background()

	for i := range 4 {
		ts.setFree(t, "B", 7.5-float64(i), baseTime.Add(time.Duration(i)*time.Hour))
	}
	ts.setFree(t, "A", 2.5, baseTime.Add(90*time.Minute))

	all, err := ts.SnapshotService.ListHistory(ctx, &entity.ListHistoryRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	onlyB, err := ts.SnapshotService.ListHistory(ctx, &entity.ListHistoryRequest{SnapshotName: "B", Limit: 2})
	require.NoError(t, err)
	require.Len(t, onlyB, 2)
	assert.Equal(t, "2025-09-01T11:00:00Z", onlyB[0].ObservedAt)
	assert.Equal(t, "2025-09-01T10:00:00Z", onlyB[1].ObservedAt)

	none, err := ts.SnapshotService.ListHistory(ctx, &entity.ListHistoryRequest{SnapshotName: "C"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
