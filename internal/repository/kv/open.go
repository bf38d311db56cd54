package kv

import (
	"context"
	"fmt"
	"strings"

	"storefront-shell/internal/db"
	"storefront-shell/internal/migrate"
)

// Open selects a backend from the DSN scheme and applies migrations.
//
//	memory://                 process-local map
//	postgres://... postgresql://...
//	sqlite://path or a bare filesystem path
func Open(ctx context.Context, dsn string) (Repository, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("storage dsn is required")
	case strings.HasPrefix(dsn, "memory://"):
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		pool, err := db.Connect(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		return NewPostgres(pool), nil
	default:
		path := strings.TrimPrefix(dsn, "sqlite://")
		sqlDB, err := db.OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := migrate.ApplySQLite(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		return NewSQLite(sqlDB), nil
	}
}
