package router

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
)

// ServiceName is the health service name reported alongside the overall
// server status.
const ServiceName = "userkeeper.Users"

type HealthChecker interface {
	Check(ctx context.Context) model.HealthStatus
}

// HealthWatcher polls a HealthChecker and mirrors the result into the gRPC
// health server.
type HealthWatcher struct {
	checker  HealthChecker
	server   *health.Server
	interval time.Duration
	logger   *logger.Logger
	hooks    []func(healthy bool)
}

func NewHealthWatcher(checker HealthChecker, server *health.Server, interval time.Duration, logger *logger.Logger, hooks ...func(healthy bool)) *HealthWatcher {
	return &HealthWatcher{
		checker:  checker,
		server:   server,
		interval: interval,
		logger:   logger,
		hooks:    hooks,
	}
}

// Run checks once immediately and then every interval until ctx is done,
// at which point every service is marked NOT_SERVING.
func (w *HealthWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.update(ctx)
	for {
		select {
		case <-ctx.Done():
			w.server.Shutdown()
			return nil
		case <-ticker.C:
			w.update(ctx)
		}
	}
}

func (w *HealthWatcher) update(ctx context.Context) {
	healthy := w.checker.Check(ctx).Healthy

	status := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		w.logger.Warn("Health watcher: store unavailable")
	}
	w.server.SetServingStatus("", status)
	w.server.SetServingStatus(ServiceName, status)

	for _, hook := range w.hooks {
		hook(healthy)
	}
}
