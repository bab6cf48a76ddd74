package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig holds connection pool settings
type PoolConfig struct {
	MaxConns     int32
	MinConns     int32
	ConnLifetime time.Duration
}

// NewPostgresPool creates a new PostgreSQL connection pool
func NewPostgresPool(ctx context.Context, dsn string, pc PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}

	if pc.MaxConns > 0 {
		config.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		config.MinConns = pc.MinConns
	}
	if pc.ConnLifetime > 0 {
		config.MaxConnLifetime = pc.ConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
