package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/pkg/apierror"
	"github.com/jimyag/xfer/pkg/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSession_DescribeSession(t *testing.T) {
	t.Parallel()
	ta := setupTestAPI(t)

	ta.sessions.On("DescribeSession", mock.Anything).Return(&entity.Session{
		ID:   "ts-1",
		Name: "Default Session",
		Snapshots: []entity.Snapshot{
			{ID: "snap-a", Name: "A", Total: 8, Free: 2.5, Used: 5.5},
			{ID: "snap-b", Name: "B", Total: 8, Free: 7.8, Used: 0.2},
		},
		Jobs:    []entity.Job{{ID: "job-1", Name: "Backup job", StartTime: "17:55"}},
		History: []entity.HistoryEntry{},
	}, nil)

	w := ta.post("/api/describe-session", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[entity.DescribeSessionResponse](t, w)
	require.NotNil(t, resp.Session)
	assert.Equal(t, "ts-1", resp.Session.ID)
	assert.Len(t, resp.Session.Snapshots, 2)
	assert.Equal(t, "17:55", resp.Session.Jobs[0].StartTime)
}

func TestSession_UpdateSession(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name         string
		body         string
		mockSetup    func(*MockSessionService)
		expectStatus int
		expectCode   string
	}{
		{
			name: "set start time",
			body: `{"start_time":"2025-09-01T08:00:00Z"}`,
			mockSetup: func(m *MockSessionService) {
				m.On("UpdateSession", mock.Anything, mock.MatchedBy(func(req *entity.UpdateSessionRequest) bool {
					return req.StartTime != nil && *req.StartTime == "2025-09-01T08:00:00Z" &&
						req.LastUpdated == nil && req.ManualPercent == nil
				})).Return(&entity.Session{ID: "ts-1", StartTime: "2025-09-01T08:00:00Z"}, nil)
			},
			expectStatus: http.StatusOK,
		},
		{
			name: "clear manual percent",
			body: `{"manual_percent":""}`,
			mockSetup: func(m *MockSessionService) {
				m.On("UpdateSession", mock.Anything, mock.MatchedBy(func(req *entity.UpdateSessionRequest) bool {
					return req.ManualPercent != nil && *req.ManualPercent == ""
				})).Return(&entity.Session{ID: "ts-1"}, nil)
			},
			expectStatus: http.StatusOK,
		},
		{
			name:         "empty request",
			body:         `{}`,
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameterValue",
		},
		{
			name:         "manual percent out of range",
			body:         `{"manual_percent":"120"}`,
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameterValue",
		},
		{
			name:         "bad start time",
			body:         `{"start_time":"tomorrow"}`,
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameterValue",
		},
		{
			name: "start time locked",
			body: `{"start_time":"2025-09-01T09:00:00Z"}`,
			mockSetup: func(m *MockSessionService) {
				m.On("UpdateSession", mock.Anything, mock.Anything).
					Return(nil, apierror.WrapError(apierror.ErrStartTimeLocked, "start time is already set", nil))
			},
			expectStatus: http.StatusConflict,
			expectCode:   "Session.StartTimeLocked",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ta := setupTestAPI(t)
			if tc.mockSetup != nil {
				tc.mockSetup(ta.sessions)
			}

			w := ta.post("/api/update-session", tc.body)
			assert.Equal(t, tc.expectStatus, w.Code, w.Body.String())
			if tc.expectCode != "" {
				assert.Equal(t, tc.expectCode, errorCode(t, w))
			}
		})
	}
}

func TestSession_DescribeProgress(t *testing.T) {
	t.Parallel()

	t.Run("summary is returned", func(t *testing.T) {
		t.Parallel()
		ta := setupTestAPI(t)

		derived := 50.0
		eta := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
		ta.sessions.On("DescribeProgress", mock.Anything, &entity.DescribeProgressRequest{ObservedAt: "2025-09-01T10:00:00Z"}).
			Return(&entity.Progress{
				SessionID:   "ts-1",
				Source:      "A",
				Destination: "B",
				ObservedAt:  "2025-09-01T10:00:00Z",
				Summary: progress.Summary{
					Policy:           progress.PolicyRatio,
					DerivedPercent:   &derived,
					EffectivePercent: 50,
					ETA:              &eta,
					Elapsed:          "2h 0m",
					Remaining:        "2h 0m",
					PercentText:      "50.00%",
					RateText:         progress.Placeholder,
				},
			}, nil)

		w := ta.post("/api/describe-progress", `{"observed_at":"2025-09-01T10:00:00Z"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeBody[entity.DescribeProgressResponse](t, w)
		require.NotNil(t, resp.Progress)
		assert.Equal(t, "50.00%", resp.Progress.Summary.PercentText)
		assert.Equal(t, "2h 0m", resp.Progress.Summary.Remaining)
		require.NotNil(t, resp.Progress.Summary.ETA)
		assert.True(t, eta.Equal(*resp.Progress.Summary.ETA))
		assert.Nil(t, resp.Progress.Summary.Rate)
	})

	t.Run("invalid observed_at", func(t *testing.T) {
		t.Parallel()
		ta := setupTestAPI(t)

		w := ta.post("/api/describe-progress", `{"observed_at":"noon"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		t.Parallel()
		ta := setupTestAPI(t)

		ta.sessions.On("DescribeProgress", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		w := ta.post("/api/describe-progress", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "InternalError", errorCode(t, w))
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}
