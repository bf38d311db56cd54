package product

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"storefront-shell/internal/domain"
)

type source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error)
}

// Service reads the catalog from the storefront API and keeps up to size
// recently seen products for ttl, so repeated adds of one product cost a
// single request.
type Service struct {
	src   source
	cache *expirable.LRU[domain.ID, domain.Product]
}

// New creates a Service. A non-positive size or ttl disables caching.
func New(src source, size int, ttl time.Duration) *Service {
	s := &Service{src: src}
	if size > 0 && ttl > 0 {
		s.cache = expirable.NewLRU[domain.ID, domain.Product](size, nil, ttl)
	}
	return s
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.src.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		s.store(p)
	}
	return products, nil
}

// GetProduct returns domain.ErrNotFound for an unknown id. Misses are not cached.
func (s *Service) GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error) {
	if s.cache != nil {
		if p, ok := s.cache.Get(id); ok {
			return &p, nil
		}
	}

	p, err := s.src.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(*p)
	return p, nil
}

// Forget drops every cached product.
func (s *Service) Forget() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// Len reports how many products are cached.
func (s *Service) Len() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

func (s *Service) store(p domain.Product) {
	if s.cache == nil || p.ID == "" {
		return
	}
	s.cache.Add(p.ID, p)
}
