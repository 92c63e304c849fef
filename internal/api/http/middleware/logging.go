package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
)

// CompletionHook receives the summary of every finished request.
type CompletionHook func(r *http.Request, rec model.RequestRecord)

// Performance measures each request through a wrapped response writer and
// hands the result to its hooks once the handler returns.
type Performance struct {
	hooks []CompletionHook
	now   func() time.Time
}

func NewPerformance(hooks ...CompletionHook) *Performance {
	return &Performance{
		hooks: hooks,
		now:   time.Now,
	}
}

func (p *Performance) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := p.now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		rec := model.RequestRecord{
			Method:     r.Method,
			Path:       r.URL.Path,
			Route:      routePattern(r),
			StatusCode: status,
			Latency:    p.now().Sub(start),
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
		}
		for _, hook := range p.hooks {
			hook(r, rec)
		}
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// AccessLog returns a hook that writes one structured record per request.
func AccessLog(logger *logger.Logger) CompletionHook {
	return func(r *http.Request, rec model.RequestRecord) {
		logger.Info("HTTP request completed",
			"method", rec.Method,
			"path", rec.Path,
			"status", rec.StatusCode,
			"duration_ms", rec.Latency.Milliseconds(),
			"ip", rec.RemoteAddr,
			"user_agent", rec.UserAgent,
			"request_id", chimw.GetReqID(r.Context()))
	}
}
