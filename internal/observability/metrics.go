package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/userkeeper/internal/model"
)

const unknownRoute = "unknown"

// Metrics holds the HTTP request collectors and the registry they are
// exposed from.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	storeUp         prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	storeUp := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_up",
		Help:      "1 when the user store answered the last health check.",
	})
	registry.MustRegister(
		requests,
		duration,
		storeUp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		storeUp:         storeUp,
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Observe records one completed request.
func (m *Metrics) Observe(_ *http.Request, rec model.RequestRecord) {
	route := rec.Route
	if route == "" {
		route = unknownRoute
	}
	m.requestsTotal.WithLabelValues(rec.Method, route, strconv.Itoa(rec.StatusCode)).Inc()
	m.requestDuration.WithLabelValues(rec.Method, route).Observe(rec.Latency.Seconds())
}

// SetStoreUp records the outcome of the latest store health check.
func (m *Metrics) SetStoreUp(up bool) {
	if up {
		m.storeUp.Set(1)
		return
	}
	m.storeUp.Set(0)
}
