package kv

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront-shell/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres stores values in a Postgres instance on the kiosk host. Close closes the pool.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	if err := r.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *postgresRepo) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO kv (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`
	_, err := r.pool.Exec(ctx, q, key, value)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM kv WHERE key = $1`, key)
	return err
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresRepo) Close() error {
	r.pool.Close()
	return nil
}
