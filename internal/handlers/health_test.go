package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockledger/internal/handlers"
	"github.com/ammerola/stockledger/test/helpers"
	"github.com/ammerola/stockledger/test/mocks"
)

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantState  string
	}{
		{name: "all_dependencies_up", wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "database_down", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantState: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			database := mocks.NewMockDatabase(ctrl)
			database.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)
			if tt.pingErr == nil {
				database.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"total_conns": int32(4)})
			}

			testRedis := helpers.SetupTestRedis(t)
			cfg := helpers.LoadTestConfig()
			h := handlers.NewHealthHandler(database, testRedis.Client, nil, cfg, helpers.TestLogger())

			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))

			var health handlers.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
			assert.Equal(t, tt.wantState, health.Status)
			assert.Equal(t, "memory", health.LedgerStore)
			assert.Equal(t, "healthy", health.Services["redis"].Status)
			assert.NotContains(t, health.Services, "queue")
			if tt.pingErr != nil {
				assert.Equal(t, "connection refused", health.Services["database"].Message)
			}
		})
	}
}

func TestHealthHandler_MemoryStoreWithoutDependencies(t *testing.T) {
	h := handlers.NewHealthHandler(nil, nil, nil, helpers.LoadTestConfig(), helpers.TestLogger())

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var health handlers.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Empty(t, health.Services)
}

func TestHealthHandler_Readiness(t *testing.T) {
	testRedis := helpers.SetupTestRedis(t)
	h := handlers.NewHealthHandler(nil, testRedis.Client, nil, helpers.LoadTestConfig(), helpers.TestLogger())

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)

	testRedis.Server.Close()

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Ready   bool              `json:"ready"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Ready)
	assert.Equal(t, "not ready", body.Details["redis"])
}
