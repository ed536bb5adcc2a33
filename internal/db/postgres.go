package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PoolOptions sizes a pool for one binary. The API needs more connections
// than the worker or the bridge.
type PoolOptions struct {
	AppName  string
	MaxConns int32
}

// poolConfig parses dsn and applies opts. Sessions run in UTC; contract dates
// are converted to the contract timezone in Go.
func poolConfig(dsn string, opts PoolOptions) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if opts.MaxConns <= 0 {
		opts.MaxConns = 20
	}
	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = max(opts.MaxConns/10, 1)
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	if opts.AppName != "" {
		cfg.ConnConfig.RuntimeParams["application_name"] = "shokulab-" + opts.AppName
	}
	return cfg, nil
}

func NewPostgresPool(ctx context.Context, dsn string, opts PoolOptions, log *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(dsn, opts)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("postgres pool created",
		zap.String("app", opts.AppName),
		zap.String("database", cfg.ConnConfig.Database),
		zap.Int32("max_conns", cfg.MaxConns))
	return pool, nil
}
