package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/userkeeper/internal/model"
)

const (
	statusOK       = "OK"
	statusDegraded = "DEGRADED"
)

type HealthService interface {
	Check(ctx context.Context) model.HealthStatus
}

type Health struct {
	healthService HealthService
}

func NewHealth(healthService HealthService) *Health {
	return &Health{healthService: healthService}
}

func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	status := h.healthService.Check(r.Context())

	resp := healthResponse{
		Status:    statusOK,
		Timestamp: status.Timestamp,
		Uptime:    status.Uptime.Seconds(),
	}
	code := http.StatusOK
	if !status.Healthy {
		resp.Status = statusDegraded
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, resp)
}
