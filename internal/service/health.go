package service

import (
	"context"
	"time"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
)

const healthPingTimeout = 2 * time.Second

// Health reports process uptime and store reachability.
type Health struct {
	store   model.Pinger
	logger  *logger.Logger
	started time.Time
	now     func() time.Time
}

func NewHealth(store model.Pinger, logger *logger.Logger) *Health {
	return &Health{
		store:   store,
		logger:  logger,
		started: time.Now(),
		now:     time.Now,
	}
}

func (h *Health) Check(ctx context.Context) model.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	now := h.now()
	status := model.HealthStatus{
		Healthy:   true,
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.started),
	}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Health service: store ping failed",
			"error", err.Error())
		status.Healthy = false
	}

	return status
}
