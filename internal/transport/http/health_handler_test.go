package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ymreport/internal/services"
	"ymreport/internal/shared/testutil"
)

type mockHealthService struct {
	mock.Mock
}

func (m *mockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func TestHealthHandler_Routes(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		method     string
		status     services.HealthStatus
		wantStatus int
	}{
		{name: "health", path: "/api/health", method: "HealthCheck", status: services.HealthStatus{Status: services.StatusOK}, wantStatus: http.StatusOK},
		{name: "ready", path: "/api/health/ready", method: "ReadinessCheck", status: services.HealthStatus{Status: services.StatusReady}, wantStatus: http.StatusOK},
		{name: "not ready", path: "/api/health/ready", method: "ReadinessCheck", status: services.HealthStatus{
			Status:   services.StatusNotReady,
			Services: map[string]services.ServiceHealth{"scheduler": {Status: services.StatusNotReady, Message: "outbox missing"}},
		}, wantStatus: http.StatusServiceUnavailable},
		{name: "live", path: "/api/health/live", method: "LivenessCheck", status: services.HealthStatus{Status: services.StatusAlive}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockHealthService{}
			svc.On(tt.method, mock.Anything).Return(tt.status).Once()

			logger, _ := testutil.NewTestLogger(t)
			r := chi.NewRouter()
			r.Mount("/api/health", NewHealthHandler(svc, logger).Routes())

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.status.Status, got.Status)
			assert.Equal(t, tt.status.Services, got.Services)
			svc.AssertExpectations(t)
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	svc := &mockHealthService{}
	svc.On("Version").Return(map[string]interface{}{"version": "1.0.0", "layout_version": "v1"})

	logger, _ := testutil.NewTestLogger(t)
	rec := httptest.NewRecorder()
	NewHealthHandler(svc, logger).Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "1.0.0", got["version"])
	assert.Equal(t, "v1", got["layout_version"])
}
