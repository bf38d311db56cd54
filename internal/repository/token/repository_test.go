package token

import (
	"context"
	"errors"
	"testing"

	"storefront-shell/internal/domain"
	"storefront-shell/internal/repository/kv"
)

func TestTokenLifecycle(t *testing.T) {
	store := kv.NewMemory()
	repo := NewKV(store)
	ctx := context.Background()

	got, err := repo.Load(ctx)
	if err != nil || got != "" {
		t.Fatalf("expected empty token, got %q err=%v", got, err)
	}

	if err := repo.Save(ctx, " abc "); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, _ := repo.Load(ctx); got != "abc" {
		t.Fatalf("expected trimmed token, got %q", got)
	}

	if err := repo.Save(ctx, ""); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	if _, err := store.Get(ctx, StorageKey); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected key removed, got %v", err)
	}
}

func TestLoad_WhitespaceIsAbsent(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	_ = store.Set(ctx, StorageKey, "   ")
	got, err := NewKV(store).Load(ctx)
	if err != nil || got != "" {
		t.Fatalf("expected absent token, got %q err=%v", got, err)
	}
}
