// Package postgres opens the pgx connection pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"hotpicks/internal/platform/config"
	"hotpicks/pkg/platform/sentinel"
)

// DB is a pgx pool with a health check.
type DB struct {
	*pgxpool.Pool
}

// New opens a pool and pings it. Returns nil when no URL is configured.
func New(ctx context.Context, cfg config.PostgresConfig) (*DB, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: postgres ping: %v", sentinel.ErrUnavailable, err)
	}
	return &DB{Pool: pool}, nil
}

// Health checks that the database answers.
func (db *DB) Health(ctx context.Context) error {
	return db.Ping(ctx)
}
