package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront-shell/internal/domain"
	"storefront-shell/internal/repository/kv"
)

// StorageKey is the durable storage key holding the JSON-encoded line items.
const StorageKey = "cart"

// Repository loads and saves the whole line-item sequence.
type Repository interface {
	Load(ctx context.Context) ([]domain.LineItem, error)
	Save(ctx context.Context, items []domain.LineItem) error
}

type kvRepo struct {
	store kv.Repository
}

func NewKV(store kv.Repository) Repository {
	return &kvRepo{store: store}
}

// Load returns the persisted items. A missing key yields an empty cart and no
// error; an undecodable value yields an empty cart and domain.ErrStorageCorrupt.
func (r *kvRepo) Load(ctx context.Context) ([]domain.LineItem, error) {
	raw, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.LineItem{}, nil
		}
		return []domain.LineItem{}, err
	}
	if raw == "" {
		return []domain.LineItem{}, nil
	}
	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []domain.LineItem{}, fmt.Errorf("%w: decode cart: %v", domain.ErrStorageCorrupt, err)
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return items, nil
}

func (r *kvRepo) Save(ctx context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return r.store.Set(ctx, StorageKey, string(raw))
}
