package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/userkeeper/database"
)

var errNoPool = errors.New("connection pool is nil")

// Connection is the pgx pool shared by the user repository. The users
// schema is guaranteed to be current once NewConnection returns.
type Connection struct {
	*pgxpool.Pool
}

// NewConnection opens a pool for dsn, checks that the server answers and
// applies pending goose migrations before any query runs. Any failure
// closes the pool.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	if err := database.Migrate(ctx, conf.ConnString()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate users schema: %w", err)
	}

	return &Connection{
		Pool: pool,
	}, nil
}

func (s *Connection) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

// Ping backs the health check; a Connection without a pool is unhealthy.
func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return errNoPool
	}
	return s.Pool.Ping(ctx)
}
