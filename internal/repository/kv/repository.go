package kv

import "context"

// Repository is the on-device key/value store backing the session and the cart.
// Get reports domain.ErrNotFound for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
