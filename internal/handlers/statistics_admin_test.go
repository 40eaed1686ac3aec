package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
	"github.com/ammerola/stockledger/internal/handlers"
	"github.com/ammerola/stockledger/internal/workers"
	"github.com/ammerola/stockledger/test/helpers"
	"github.com/ammerola/stockledger/test/mocks"
)

func TestStatisticsHandler_GetStatistics(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(*mocks.MockStatisticsService)
		expectedStatus int
	}{
		{
			name:  "applies_filters",
			query: "?from=2026-01-01&to=2026-01-31&category=component&recent=5",
			setupMocks: func(m *mocks.MockStatisticsService) {
				m.EXPECT().GetStatistics(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, f ports.StatisticsFilter) (*ports.Statistics, error) {
						require.NotNil(t, f.From)
						require.NotNil(t, f.To)
						assert.Equal(t, domain.CategoryComponent, f.Category)
						assert.Equal(t, 5, f.RecentLimit)
						return &ports.Statistics{TotalItems: 4, TotalQuantity: decimal.NewFromInt(40)}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "rejects_inverted_range",
			query:          "?from=2026-02-01&to=2026-01-01",
			setupMocks:     func(m *mocks.MockStatisticsService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects_unknown_category",
			query:          "?category=spaceship",
			setupMocks:     func(m *mocks.MockStatisticsService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects_negative_recent",
			query:          "?recent=-1",
			setupMocks:     func(m *mocks.MockStatisticsService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			stats := mocks.NewMockStatisticsService(ctrl)
			tt.setupMocks(stats)
			handler := handlers.NewStatisticsHandler(stats, nil, nil, helpers.TestLogger())

			req := httptest.NewRequest("GET", "/api/v1/statistics"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.GetStatistics(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "private, max-age=30", w.Header().Get("Cache-Control"))
				var got ports.Statistics
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, 4, got.TotalItems)
			}
		})
	}
}

func TestStatisticsHandler_QueueReport(t *testing.T) {
	t.Run("unavailable_without_queue", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		handler := handlers.NewStatisticsHandler(mocks.NewMockStatisticsService(ctrl), nil, nil, helpers.TestLogger())

		req := httptest.NewRequest("POST", "/api/v1/reports/statistics", nil)
		w := httptest.NewRecorder()
		handler.QueueReport(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("queues_snapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		enqueuer := mocks.NewMockTaskEnqueuer(ctrl)
		jobs := newJobStore(t)
		handler := handlers.NewStatisticsHandler(mocks.NewMockStatisticsService(ctrl), enqueuer, jobs, helpers.TestLogger())

		enqueuer.EXPECT().EnqueueContext(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
				assert.Equal(t, workers.TypeStatisticsReport, task.Type())
				var p workers.ReportJobPayload
				require.NoError(t, json.Unmarshal(task.Payload(), &p))
				assert.Equal(t, domain.CategoryComponent, p.Category)
				return &asynq.TaskInfo{ID: "task-1"}, nil
			})

		req := httptest.NewRequest("POST", "/api/v1/reports/statistics?category=component", nil)
		w := httptest.NewRecorder()
		handler.QueueReport(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "/api/v1/jobs/"+resp["job_id"], resp["status_url"])

		status, err := jobs.Get(context.Background(), resp["job_id"])
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.Equal(t, workers.JobKindStatisticsReport, status.Kind)
	})
}

func TestAdminHandler_Reset(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMocks     func(*mocks.MockMigrationService)
		expectedStatus int
	}{
		{
			name: "wipes_data",
			body: map[string]string{"confirmation": services.ResetConfirmationPhrase},
			setupMocks: func(m *mocks.MockMigrationService) {
				m.EXPECT().ResetAll(gomock.Any(), services.ResetConfirmationPhrase).
					Return(&ports.ResetCounts{Transactions: 12, Items: 3}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "requires_confirmation",
			body:           map[string]string{},
			setupMocks:     func(m *mocks.MockMigrationService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "wrong_phrase",
			body: map[string]string{"confirmation": "yes"},
			setupMocks: func(m *mocks.MockMigrationService) {
				m.EXPECT().ResetAll(gomock.Any(), "yes").
					Return(nil, domain.InvalidArgument("confirmation must be %q", services.ResetConfirmationPhrase))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "disabled_in_environment",
			body: map[string]string{"confirmation": services.ResetConfirmationPhrase},
			setupMocks: func(m *mocks.MockMigrationService) {
				m.EXPECT().ResetAll(gomock.Any(), gomock.Any()).
					Return(nil, domain.NewInvalidState("environment", "current", "reset is disabled"))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			migration := mocks.NewMockMigrationService(ctrl)
			tt.setupMocks(migration)
			handler := handlers.NewAdminHandler(migration, helpers.TestLogger())

			req := httptest.NewRequest("POST", "/api/v1/admin/reset", jsonBody(t, tt.body))
			w := httptest.NewRecorder()

			handler.Reset(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp struct {
					Deleted ports.ResetCounts `json:"deleted"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, int64(12), resp.Deleted.Transactions)
			}
		})
	}
}
