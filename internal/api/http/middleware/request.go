package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
)

// EchoRequestID copies the id assigned by chi's RequestID into the response
// headers. It must run after RequestID.
func EchoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			w.Header().Set(chimw.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

// Recover turns handler panics into internal error responses.
type Recover struct {
	errors ErrorResponder
	logger *logger.Logger
}

func NewRecover(errors ErrorResponder, logger *logger.Logger) *Recover {
	return &Recover{
		errors: errors,
		logger: logger,
	}
}

func (m *Recover) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}

			m.logger.Error("Recover middleware: recovered from panic",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", chimw.GetReqID(r.Context()),
				"panic", fmt.Sprint(p),
				"stack", string(debug.Stack()))

			m.errors.Respond(w, r, model.NewInternalError(fmt.Errorf("panic: %v", p)))
		}()

		next.ServeHTTP(w, r)
	})
}

// Timeout bounds each request by timeout. When the deadline passes before
// the handler wrote anything, onTimeout answers instead.
func Timeout(timeout time.Duration, onTimeout http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				onTimeout(w, r)
			}
		})
	}
}
