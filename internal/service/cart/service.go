package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"storefront-shell/internal/domain"
	cartrepo "storefront-shell/internal/repository/cart"
)

const saveTimeout = 5 * time.Second

var (
	// ErrProductIDRequired is returned when a product without an id is added.
	ErrProductIDRequired = errors.New("product id required")
	// ErrInvalidPrice is returned for a NaN or infinite price, which cannot be stored.
	ErrInvalidPrice = errors.New("product price must be a finite number")
)

type notifier interface {
	Add(kind domain.NotificationType, message string) domain.Notification
}

// Service is the visitor's cart. Items are persisted through an observer on
// the item collection after every structural change.
type Service struct {
	mu     sync.Mutex
	items  *lineItems
	repo   cartrepo.Repository
	notes  notifier
	logger logrus.FieldLogger
	status Status
	now    func() time.Time
}

// New loads the persisted cart and attaches the persistence observer. A
// missing or corrupt stored cart starts empty.
func New(ctx context.Context, repo cartrepo.Repository, notes notifier, logger logrus.FieldLogger) *Service {
	logger = logger.WithField("component", "cart")
	initial, err := repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStorageCorrupt) {
			logger.WithError(err).Warn("stored cart is corrupt, starting empty")
		} else {
			logger.WithError(err).Error("load cart")
		}
		initial = nil
	}
	initial, repaired := normalizeItems(initial)

	s := &Service{
		items:  newLineItems(initial),
		repo:   repo,
		notes:  notes,
		logger: logger,
		status: Status{ConnectionStatus: ConnectionDisconnected},
		now:    time.Now,
	}
	s.items.observe(s.persist)
	s.items.observe(func([]domain.LineItem) { s.status.LastUpdate = s.now() })
	if repaired {
		logger.Warn("stored cart had duplicate lines or invalid quantities, repaired")
		s.persist(s.items.snapshot())
	}
	return s
}

// Observe registers an additional observer on the item collection. fn runs
// with the cart locked and must not call back into the Service.
func (s *Service) Observe(fn Observer) {
	s.mu.Lock()
	s.items.observe(fn)
	s.mu.Unlock()
}

func (s *Service) persist(items []domain.LineItem) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.repo.Save(ctx, items); err != nil {
		s.logger.WithError(err).Error("persist cart")
	}
}

// AddItem adds quantity units of product. A quantity below 1 is treated as 1.
// An existing line keeps its original title, price and image.
func (s *Service) AddItem(product domain.Product, quantity int) (domain.LineItem, error) {
	id := domain.ID(strings.TrimSpace(string(product.ID)))
	if id == "" {
		return domain.LineItem{}, ErrProductIDRequired
	}
	if math.IsNaN(product.Price) || math.IsInf(product.Price, 0) {
		return domain.LineItem{}, ErrInvalidPrice
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	var (
		line    domain.LineItem
		message string
	)
	if i := s.items.indexOf(id); i >= 0 {
		existing := s.items.at(i)
		s.items.setQuantity(i, existing.Quantity+quantity)
		line = s.items.at(i)
		message = fmt.Sprintf("Added %d more of %q", quantity, existing.Title)
	} else {
		line = domain.LineItem{
			ID:       id,
			Title:    product.Title,
			Price:    product.Price,
			ImageURL: product.PrimaryImage(),
			Quantity: quantity,
		}
		s.items.push(line)
		message = fmt.Sprintf("%q added to cart", product.Title)
	}
	s.mu.Unlock()

	s.notes.Add(domain.NotifySuccess, message)
	return line, nil
}

// RemoveItem deletes the line for id. It reports false when there was none.
func (s *Service) RemoveItem(id domain.ID) bool {
	s.mu.Lock()
	i := s.items.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	removed := s.items.removeAt(i)
	s.mu.Unlock()

	s.notes.Add(domain.NotifyInfo, fmt.Sprintf("%q removed from cart", removed.Title))
	return true
}

// Clear empties the cart and emits a single notification.
func (s *Service) Clear() {
	s.mu.Lock()
	s.items.reset()
	s.mu.Unlock()

	s.notes.Add(domain.NotifyInfo, "Cart cleared")
}

// SetQuantity sets the quantity for id, clamped to at least 1. It reports
// false when the product is not in the cart.
func (s *Service) SetQuantity(id domain.ID, quantity int) bool {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	i := s.items.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	changed := s.items.setQuantity(i, quantity)
	title := s.items.at(i).Title
	s.mu.Unlock()

	if changed {
		s.notes.Add(domain.NotifyInfo, fmt.Sprintf("Quantity of %q updated", title))
	}
	return true
}

// Items returns a copy of the line items in cart order.
func (s *Service) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.snapshot()
}

func (s *Service) Get(id domain.ID) (domain.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.items.indexOf(id)
	if i < 0 {
		return domain.LineItem{}, false
	}
	return s.items.at(i), true
}

// Count is the sum of quantities.
func (s *Service) Count() int {
	count, _ := domain.SumLineItems(s.Items())
	return count
}

// Total is the sum of price times quantity.
func (s *Service) Total() float64 {
	_, total := domain.SumLineItems(s.Items())
	return total
}

// ToOrderPayload lists product ids and quantities in cart order. Prices are
// left out; the server prices the order at checkout.
func (s *Service) ToOrderPayload() domain.OrderPayload {
	items := s.Items()
	payload := domain.OrderPayload{Items: make([]domain.OrderItem, 0, len(items))}
	for _, it := range items {
		payload.Items = append(payload.Items, domain.OrderItem{ProductID: it.ID, Quantity: it.Quantity})
	}
	return payload
}

func (s *Service) Summary() domain.CartSummary {
	items := s.Items()
	count, total := domain.SumLineItems(items)
	summary := domain.CartSummary{
		ItemCount:   count,
		TotalAmount: total,
		Items:       make([]domain.SummaryItem, 0, len(items)),
	}
	for _, it := range items {
		summary.Items = append(summary.Items, domain.SummaryItem{
			ID:       it.ID,
			Title:    it.Title,
			Quantity: it.Quantity,
			Price:    it.Price,
			Subtotal: it.Subtotal(),
		})
	}
	return summary
}

// Validate runs the advisory pre-flight checks and lists every problem found.
func (s *Service) Validate() domain.CartValidation {
	items := s.Items()
	problems := []string{}
	if len(items) == 0 {
		problems = append(problems, "Cart is empty")
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("Invalid quantity for %q", it.Title))
		}
		if it.Price <= 0 {
			problems = append(problems, fmt.Sprintf("Invalid price for %q", it.Title))
		}
	}
	return domain.CartValidation{IsValid: len(problems) == 0, Errors: problems}
}
