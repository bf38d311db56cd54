package product

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront-shell/internal/domain"
)

type stubSource struct {
	products map[domain.ID]domain.Product
	gets     int
	lists    int
}

func (s *stubSource) ListProducts(context.Context) ([]domain.Product, error) {
	s.lists++
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubSource) GetProduct(_ context.Context, id domain.ID) (*domain.Product, error) {
	s.gets++
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func TestGetProduct_CachesForTTL(t *testing.T) {
	src := &stubSource{products: map[domain.ID]domain.Product{"1": {ID: "1", Title: "Mug", Price: 3}}}
	svc := New(src, 16, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		p, err := svc.GetProduct(context.Background(), "1")
		if err != nil || p.Title != "Mug" {
			t.Fatalf("unexpected result %+v err=%v", p, err)
		}
	}
	if src.gets != 1 {
		t.Fatalf("expected 1 upstream call, got %d", src.gets)
	}

	time.Sleep(120 * time.Millisecond)
	if _, err := svc.GetProduct(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.gets != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", src.gets)
	}
}

func TestGetProduct_MissesAreNotCached(t *testing.T) {
	src := &stubSource{}
	svc := New(src, 16, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := svc.GetProduct(context.Background(), "9"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if src.gets != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", src.gets)
	}
	if svc.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", svc.Len())
	}
}

func TestListProducts_WarmsCache(t *testing.T) {
	src := &stubSource{products: map[domain.ID]domain.Product{"1": {ID: "1"}, "2": {ID: "2"}}}
	svc := New(src, 16, time.Minute)
	if _, err := svc.ListProducts(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.GetProduct(context.Background(), "2"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if src.gets != 0 {
		t.Fatalf("expected cache hit, got %d upstream gets", src.gets)
	}

	svc.Forget()
	if svc.Len() != 0 {
		t.Fatalf("expected empty cache after Forget, got %d", svc.Len())
	}
	if _, err := svc.GetProduct(context.Background(), "2"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if src.gets != 1 {
		t.Fatalf("expected refetch after Forget, got %d", src.gets)
	}
}

func TestCache_StaysBounded(t *testing.T) {
	products := make(map[domain.ID]domain.Product)
	for i := 1; i <= 50; i++ {
		id := domain.ID(fmt.Sprint(i))
		products[id] = domain.Product{ID: id}
	}
	src := &stubSource{products: products}
	svc := New(src, 8, time.Minute)

	if _, err := svc.ListProducts(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	for id := range products {
		if _, err := svc.GetProduct(context.Background(), id); err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
	}
	if n := svc.Len(); n != 8 {
		t.Fatalf("expected cache capped at 8 entries, got %d", n)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	src := &stubSource{products: map[domain.ID]domain.Product{"1": {ID: "1"}, "2": {ID: "2"}, "3": {ID: "3"}}}
	svc := New(src, 2, time.Minute)
	ctx := context.Background()

	_, _ = svc.GetProduct(ctx, "1")
	_, _ = svc.GetProduct(ctx, "2")
	_, _ = svc.GetProduct(ctx, "1")
	_, _ = svc.GetProduct(ctx, "3")
	if src.gets != 3 {
		t.Fatalf("expected 3 upstream calls, got %d", src.gets)
	}

	_, _ = svc.GetProduct(ctx, "1")
	if src.gets != 3 {
		t.Fatalf("expected recently used product kept, got %d calls", src.gets)
	}
	_, _ = svc.GetProduct(ctx, "2")
	if src.gets != 4 {
		t.Fatalf("expected least recently used product evicted, got %d calls", src.gets)
	}
}

func TestNoCaching(t *testing.T) {
	for name, svc := range map[string]func(*stubSource) *Service{
		"zero ttl":  func(src *stubSource) *Service { return New(src, 16, 0) },
		"zero size": func(src *stubSource) *Service { return New(src, 0, time.Minute) },
	} {
		t.Run(name, func(t *testing.T) {
			src := &stubSource{products: map[domain.ID]domain.Product{"1": {ID: "1"}}}
			s := svc(src)
			_, _ = s.GetProduct(context.Background(), "1")
			_, _ = s.GetProduct(context.Background(), "1")
			if src.gets != 2 {
				t.Fatalf("expected every call upstream, got %d", src.gets)
			}
			s.Forget()
		})
	}
}
