package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/dtroode/userkeeper/internal/api/http/handler"
	"github.com/dtroode/userkeeper/internal/api/http/middleware"
	"github.com/dtroode/userkeeper/internal/logger"
)

// Options tunes the middleware stack.
type Options struct {
	CORSOrigins    []string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Production     bool
}

// Router assembles the JSON API routes and middleware.
type Router struct {
	authHandler   *handler.Auth
	usersHandler  *handler.Users
	healthHandler *handler.Health
	authenticate  *middleware.Authenticate
	performance   *middleware.Performance
	recoverer     *middleware.Recover
	metrics       http.Handler
	logger        *logger.Logger
	opts          Options
}

func New(
	authHandler *handler.Auth,
	usersHandler *handler.Users,
	healthHandler *handler.Health,
	authenticate *middleware.Authenticate,
	performance *middleware.Performance,
	recoverer *middleware.Recover,
	metrics http.Handler,
	logger *logger.Logger,
	opts Options,
) *Router {
	return &Router{
		authHandler:   authHandler,
		usersHandler:  usersHandler,
		healthHandler: healthHandler,
		authenticate:  authenticate,
		performance:   performance,
		recoverer:     recoverer,
		metrics:       metrics,
		logger:        logger,
		opts:          opts,
	}
}

// Register builds the handler. Resource routes are served both at the root
// and under /api.
func (rt *Router) Register() http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RequestID,
		middleware.EchoRequestID,
		chimw.RealIP,
		rt.performance.Handle,
		rt.recoverer.Handle,
		rt.secureHeaders(),
		cors.Handler(cors.Options{
			AllowedOrigins:   rt.opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		httprate.Limit(
			rt.opts.RateLimit,
			rt.opts.RateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(handler.TooManyRequests),
		),
		chimw.RequestSize(rt.opts.MaxBodyBytes),
	)
	if rt.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(rt.opts.RequestTimeout, handler.RequestTimeout))
	}

	r.NotFound(handler.RouteNotFound)
	r.MethodNotAllowed(handler.RouteNotFound)

	r.Get("/health", rt.healthHandler.Check)
	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics)
	}

	rt.routes(r)
	r.Route("/api", rt.routes)

	return r
}

func (rt *Router) routes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", rt.authHandler.Register)
		r.Post("/login", rt.authHandler.Login)
		r.With(rt.authenticate.Handle).Get("/profile", rt.authHandler.Profile)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", rt.usersHandler.List)
		r.Post("/", rt.usersHandler.Create)
		r.Get("/{id}", rt.usersHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(rt.authenticate.Handle)
			r.Put("/{id}", rt.usersHandler.Update)
			r.Delete("/{id}", rt.usersHandler.Delete)
		})
	})
}

func (rt *Router) secureHeaders() func(http.Handler) http.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !rt.opts.Production,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				rt.logger.Warn("Router: secure headers blocked request",
					"path", r.URL.Path,
					"error", err.Error())
				handler.RequestRejected(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
