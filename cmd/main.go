package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"

	httpctx "github.com/dtroode/userkeeper/internal/api/http/context"
	"github.com/dtroode/userkeeper/internal/api/http/handler"
	"github.com/dtroode/userkeeper/internal/api/http/middleware"
	httprouter "github.com/dtroode/userkeeper/internal/api/http/router"
	httpserver "github.com/dtroode/userkeeper/internal/api/http/server"
	grpcrouter "github.com/dtroode/userkeeper/internal/api/grpc/router"
	grpcserver "github.com/dtroode/userkeeper/internal/api/grpc/server"
	"github.com/dtroode/userkeeper/internal/config"
	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
	"github.com/dtroode/userkeeper/internal/observability"
	"github.com/dtroode/userkeeper/internal/password"
	"github.com/dtroode/userkeeper/internal/repository/memory"
	"github.com/dtroode/userkeeper/internal/repository/postgres"
	"github.com/dtroode/userkeeper/internal/server"
	"github.com/dtroode/userkeeper/internal/service"
	"github.com/dtroode/userkeeper/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

type store interface {
	model.UserStore
	model.Pinger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.IsProduction()).With("app", cfg.App.Name, "env", cfg.App.Env)

	userStore, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "driver", cfg.Database.Driver)
	}
	defer closeStore()

	tokenManager := token.NewJWT(cfg.JWT.Secret, token.WithTTL(cfg.JWT.TTL), token.WithIssuer(cfg.JWT.Issuer))
	hasher := password.NewBcrypt(cfg.Password.BcryptCost)

	usersService := service.NewUsers(userStore, hasher, logger)
	authService := service.NewAuth(usersService, tokenManager, logger)
	healthService := service.NewHealth(userStore, logger)

	metrics := observability.NewMetrics(cfg.App.Name)

	httpSrv := registerHTTPServer(cfg, logger, usersService, authService, healthService, metrics)

	healthSrv := health.NewServer()
	grpcSrv := grpcserver.NewGRPCServer(
		grpcrouter.New(healthSrv, logger).Register(),
		fmt.Sprintf(":%s", cfg.GRPC.Port),
	)
	watcher := grpcrouter.NewHealthWatcher(healthService, healthSrv, cfg.GRPC.HealthCheckInterval, logger, metrics.SetStoreUp)

	sl := server.NewSecurityLayer(cfg.TLS.Enabled, cfg.TLS.CertFileName, cfg.TLS.PrivateKeyFileName)

	logAppVersion()

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range []model.Server{httpSrv, grpcSrv} {
		s := s
		g.Go(func() error {
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				return fmt.Errorf("server %s: %w", s.Address(), err)
			}
			return nil
		})
	}
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("received interruption signal, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, s := range []model.Server{httpSrv, grpcSrv} {
			if err := s.Stop(shutdownCtx); err != nil {
				logger.Error("error during server shutdown", "error", err, "address", s.Address())
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
	}
	logger.Info("shutdown complete")
}

func openStore(ctx context.Context, cfg config.Database) (store, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewUserRepository(), func() {}, nil
	default:
		db, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgresStore{UserRepository: postgres.NewUserRepository(db), conn: db}, func() { _ = db.Close() }, nil
	}
}

// postgresStore pairs the repository with the connection it pings.
type postgresStore struct {
	*postgres.UserRepository
	conn *postgres.Connection
}

func (s postgresStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func registerHTTPServer(
	cfg *config.Config,
	logger *logger.Logger,
	usersService *service.Users,
	authService *service.Auth,
	healthService *service.Health,
	metrics *observability.Metrics,
) *httpserver.HTTPServer {
	ctxMgr := httpctx.NewManager()
	responder := handler.NewErrorResponder(ctxMgr, logger, !cfg.IsProduction())

	r := httprouter.New(
		handler.NewAuth(authService, ctxMgr, responder, logger),
		handler.NewUsers(usersService, responder, logger),
		handler.NewHealth(healthService),
		middleware.NewAuthenticate(authService, ctxMgr, responder, logger),
		middleware.NewPerformance(middleware.AccessLog(logger), metrics.Observe),
		middleware.NewRecover(responder, logger),
		metrics.Handler(),
		logger,
		httprouter.Options{
			CORSOrigins:    cfg.HTTP.CORSOrigins,
			RateLimit:      cfg.HTTP.RateLimit,
			RateWindow:     cfg.HTTP.RateWindow,
			RequestTimeout: cfg.HTTP.RequestTimeout,
			MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
			Production:     cfg.IsProduction(),
		},
	)

	return httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
