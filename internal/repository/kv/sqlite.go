package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storefront-shell/internal/domain"
)

type sqliteRepo struct {
	db *sql.DB
}

// NewSQLite wraps an opened and migrated SQLite handle. Close closes the handle.
func NewSQLite(db *sql.DB) Repository {
	return &sqliteRepo{db: db}
}

func (r *sqliteRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *sqliteRepo) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO kv (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`
	_, err := r.db.ExecContext(ctx, q, key, value, time.Now().UTC().UnixMilli())
	return err
}

func (r *sqliteRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (r *sqliteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *sqliteRepo) Close() error {
	return r.db.Close()
}
