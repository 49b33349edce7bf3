package xferctl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/pkg/apierror"
	"github.com/jimyag/xfer/pkg/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run 执行命令并返回标准输出
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", emptyConfig(t)}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// emptyConfig 避免读取用户目录下的配置文件
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xferctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	return path
}

func TestCalcPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "ratio",
			args: []string{"--source-used", "5.5", "--dest-used", "2.75"},
			want: []string{"policy:    ratio", "derived:   50.00%", "effective: 50.00%"},
		},
		{
			name: "manual overrides",
			args: []string{"--source-used", "5.5", "--dest-used", "2.75", "--manual", "25"},
			want: []string{"derived:   50.00%", "effective: 25.00%"},
		},
		{
			name: "invalid manual falls back",
			args: []string{"--source-used", "5.5", "--dest-used", "2.75", "--manual", "110"},
			want: []string{"effective: 50.00%"},
		},
		{
			name: "capacity delta",
			args: []string{"--policy", "capacity-delta", "--source-total", "8", "--source-used", "5.5", "--dest-used", "1.5"},
			want: []string{"policy:    capacity-delta", "derived:   50.00%"},
		},
		{
			name: "nothing computable",
			args: nil,
			want: []string{"derived:   —", "effective: —"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, append([]string{"calc", "percent"}, tt.args...)...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}

	_, err := run(t, "calc", "percent", "--policy", "median")
	assert.ErrorContains(t, err, "unknown percent policy")
}

func TestCalcETA(t *testing.T) {
	t.Parallel()

	out, err := run(t, "calc", "eta",
		"--start", "2025-09-01T08:00:00Z",
		"--observed", "2025-09-01T10:00:00Z",
		"--percent", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "eta:       2025-09-01T12:00:00Z")
	assert.Contains(t, out, "remaining: 2h 0m")
	assert.Contains(t, out, "elapsed:   2h 0m")

	out, err = run(t, "calc", "eta",
		"--start", "2025-09-01T10:00:00Z",
		"--observed", "2025-09-01T10:00:00Z",
		"--percent", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "eta:       —")
	assert.Contains(t, out, "elapsed:   0h 0m")

	_, err = run(t, "calc", "eta", "--percent", "50")
	assert.Error(t, err, "--start is required")
}

func TestCalcRate(t *testing.T) {
	t.Parallel()

	out, err := run(t, "calc", "rate",
		"--sample", "2025-09-01T09:00:00Z=3",
		"--sample", "2025-09-01T08:00:00Z=1")
	require.NoError(t, err)
	assert.Equal(t, "2.00 TB/hour\n", out)

	out, err = run(t, "calc", "rate", "--unit", "GiB", "--sample", "2025-09-01T08:00:00Z=100", "--sample", "2025-09-01T08:30:00Z=400")
	require.NoError(t, err)
	assert.Equal(t, "600.00 GiB/hour\n", out)

	out, err = run(t, "calc", "rate", "--sample", "2025-09-01T08:00:00Z=1")
	require.NoError(t, err)
	assert.Equal(t, progress.Placeholder+"\n", out)

	_, err = run(t, "calc", "rate", "--sample", "garbage")
	assert.ErrorContains(t, err, "TIME=USED")
}

// fakeServer 记录请求并返回预设响应
type fakeServer struct {
	t        *testing.T
	server   *httptest.Server
	lastPath string
	lastBody string
}

func newFakeServer(t *testing.T, responses map[string]func(w http.ResponseWriter)) *fakeServer {
	t.Helper()
	fs := &fakeServer{t: t}
	fs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fs.lastPath = r.URL.Path
		fs.lastBody = string(body)
		fn, ok := responses[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fn(w)
	}))
	t.Cleanup(fs.server.Close)
	return fs
}

func writeJSON(status int, v any) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func TestProgressCommand(t *testing.T) {
	t.Parallel()

	eta := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	fs := newFakeServer(t, map[string]func(http.ResponseWriter){
		"/api/describe-progress": writeJSON(http.StatusOK, entity.DescribeProgressResponse{
			Progress: &entity.Progress{
				Source:      "A",
				Destination: "B",
				ObservedAt:  "2025-09-01T10:00:00Z",
				Summary: progress.Summary{
					EffectivePercent: 50,
					ETA:              &eta,
					Elapsed:          "2h 0m",
					Remaining:        "2h 0m",
					PercentText:      "50.00%",
					RateText:         "1.50 TB/hour",
				},
			},
		}),
	})

	out, err := run(t, "--server", fs.server.URL, "progress", "--observed-at", "2025-09-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "/api/describe-progress", fs.lastPath)
	assert.Contains(t, fs.lastBody, `"observed_at":"2025-09-01T10:00:00Z"`)
	assert.Contains(t, out, "A -> B")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "remaining  2h 0m")
	assert.Contains(t, out, "rate       1.50 TB/hour")
}

func TestFreeCommand(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, map[string]func(http.ResponseWriter){
		"/api/update-free-space": writeJSON(http.StatusOK, entity.UpdateSnapshotResponse{
			Snapshot: &entity.Snapshot{Name: "B", Total: 8, Free: 5.25, Used: 2.75},
		}),
	})

	out, err := run(t, "--server", fs.server.URL, "free", "B", "5.25")
	require.NoError(t, err)
	assert.Equal(t, "B: total 8, free 5.25, used 2.75\n", out)

	var req entity.UpdateFreeSpaceRequest
	require.NoError(t, json.Unmarshal([]byte(fs.lastBody), &req))
	assert.Equal(t, "B", req.SnapshotName)
	require.NotNil(t, req.Free)
	assert.Equal(t, 5.25, *req.Free)

	_, err = run(t, "--server", fs.server.URL, "free", "B", "lots")
	assert.ErrorContains(t, err, "invalid free space")
}

func TestFreeCommand_ServerError(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, map[string]func(http.ResponseWriter){
		"/api/update-free-space": writeJSON(http.StatusBadRequest, apierror.NewErrorResponse("req-1",
			apierror.WrapError(apierror.ErrFreeSpaceOutOfRange, "free space 9 is outside [0, 8]", nil))),
	})

	_, err := run(t, "--server", fs.server.URL, "free", "B", "9")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierror.ErrFreeSpaceOutOfRange)
	assert.Contains(t, err.Error(), "outside [0, 8]")
}

func TestJobCommands(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, map[string]func(http.ResponseWriter){
		"/api/add-job":    writeJSON(http.StatusOK, entity.AddJobResponse{Job: &entity.Job{ID: "job-7", Name: "Media"}}),
		"/api/remove-job": writeJSON(http.StatusOK, entity.RemoveJobResponse{Message: "Job removed successfully"}),
		"/api/list-jobs": writeJSON(http.StatusOK, entity.ListJobsResponse{Jobs: []entity.Job{
			{ID: "job-1", Name: "Backup job", StartTime: "17:55"},
			{ID: "job-7", Name: "Media"},
		}}),
	})

	out, err := run(t, "--server", fs.server.URL, "job", "add", "Media", "--start-time", "19:00")
	require.NoError(t, err)
	assert.Equal(t, "job-7\n", out)
	assert.Contains(t, fs.lastBody, `"start_time":"19:00"`)

	out, err = run(t, "--server", fs.server.URL, "job", "rm", "job-7")
	require.NoError(t, err)
	assert.Equal(t, "Job removed successfully\n", out)

	out, err = run(t, "--server", fs.server.URL, "job", "ls")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Backup job")
	assert.Contains(t, lines[2], "—")
}

func TestServerFromConfigFile(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, map[string]func(http.ResponseWriter){
		"/api/list-jobs": writeJSON(http.StatusOK, entity.ListJobsResponse{}),
	})

	path := filepath.Join(t.TempDir(), "xferctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: "+fs.server.URL+"\n"), 0o644))

	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", path, "job", "ls"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "/api/list-jobs", fs.lastPath)
}

func TestMissingConfigFile(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "calc", "percent"})
	assert.ErrorContains(t, cmd.ExecuteContext(context.Background()), "read config")
}
