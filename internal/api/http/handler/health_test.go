package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/userkeeper/internal/mocks"
	"github.com/dtroode/userkeeper/internal/model"
)

func TestHealth_Check(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		status     model.HealthStatus
		wantStatus int
		wantBody   string
	}{
		{
			name:       "healthy",
			status:     model.HealthStatus{Healthy: true, Timestamp: at, Uptime: 1500 * time.Millisecond},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"OK","timestamp":"2025-03-01T12:00:00Z","uptime":1.5}`,
		},
		{
			name:       "degraded",
			status:     model.HealthStatus{Healthy: false, Timestamp: at, Uptime: 3 * time.Second},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"DEGRADED","timestamp":"2025-03-01T12:00:00Z","uptime":3}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewHealthService(t)
			svc.On("Check", mock.Anything).Return(tt.status)

			rr := httptest.NewRecorder()
			NewHealth(svc).Check(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}
