package model

import (
	"context"
	"net"
	"time"
)

type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// RequestRecord is the per-request summary handed to completion hooks.
type RequestRecord struct {
	Method     string
	Path       string
	Route      string
	StatusCode int
	Latency    time.Duration
	RemoteAddr string
	UserAgent  string
}

// HealthStatus is a point-in-time service health report.
type HealthStatus struct {
	Healthy   bool
	Timestamp time.Time
	Uptime    time.Duration
}
