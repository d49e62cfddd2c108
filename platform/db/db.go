// Package db owns the PostgreSQL pool, the unit of work and migrations.
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"raf_pnp_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// applicationName tags backend sessions in pg_stat_activity.
const applicationName = "raf_pnp_backend"

// NewPool connects and pings. Pool sizing given as pool_* parameters in
// DATABASE_URL wins over the defaults below.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := cfg.GetDatabaseURL()
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	tunePool(pc, dsn)

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func tunePool(pc *pgxpool.Config, dsn string) {
	set := func(param string) bool { return strings.Contains(dsn, param+"=") }
	if !set("pool_max_conns") {
		pc.MaxConns = 20
	}
	if !set("pool_min_conns") {
		pc.MinConns = 2
	}
	if !set("pool_max_conn_lifetime") {
		pc.MaxConnLifetime = time.Hour
	}
	if !set("pool_max_conn_idle_time") {
		pc.MaxConnIdleTime = 15 * time.Minute
	}
	if !set("pool_health_check_period") {
		pc.HealthCheckPeriod = time.Minute
	}
	if _, ok := pc.ConnConfig.RuntimeParams["application_name"]; !ok {
		pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
}

// PoolAdapter lets the router's health check ping the pool.
type PoolAdapter struct {
	pool *pgxpool.Pool
}

func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	return &PoolAdapter{pool: pool}
}

func (a *PoolAdapter) Ping(ctx context.Context) error {
	return a.pool.Ping(ctx)
}
