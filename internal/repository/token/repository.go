package token

import (
	"context"
	"errors"
	"strings"

	"storefront-shell/internal/domain"
	"storefront-shell/internal/repository/kv"
)

// StorageKey is the durable storage key holding the raw bearer token.
const StorageKey = "token"

type Repository interface {
	// Load returns the stored token or "" when none is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type kvRepo struct {
	store kv.Repository
}

func NewKV(store kv.Repository) Repository {
	return &kvRepo{store: store}
}

func (r *kvRepo) Load(ctx context.Context) (string, error) {
	raw, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// Save persists token; an empty token clears the key instead.
func (r *kvRepo) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return r.Clear(ctx)
	}
	return r.store.Set(ctx, StorageKey, token)
}

func (r *kvRepo) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, StorageKey)
}
