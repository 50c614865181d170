package infrastructure

import (
	"context"
	"fmt"

	"meraki-api/config"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewJobsPool connects to the Postgres database that holds the jobs table and
// the domain tables written by the persistence adapter.
func NewJobsPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.ConnectConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
