// Package db provides database connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"database/sql"
	"strings"

	"raf_pnp_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies all pending migrations from the provided directory.
func RunMigrations(ctx context.Context, cfg config.DatabaseConfig, migrationsDir string) error {
	if strings.TrimSpace(migrationsDir) == "" {
		return nil
	}

	sqlDB, closeDB, err := openMigrationDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, migrationsDir)
}

// MigrationStatus prints the applied state of every migration through goose's logger.
func MigrationStatus(ctx context.Context, cfg config.DatabaseConfig, migrationsDir string) error {
	sqlDB, closeDB, err := openMigrationDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.StatusContext(ctx, sqlDB, migrationsDir)
}

func openMigrationDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, nil, err
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	return sqlDB, func() {
		_ = sqlDB.Close()
		pool.Close()
	}, nil
}
