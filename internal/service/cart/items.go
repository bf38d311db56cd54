package cart

import "storefront-shell/internal/domain"

// Observer receives a copy of the full item sequence after every structural change.
type Observer func(items []domain.LineItem)

// lineItems is the cart's item collection. Every mutation goes through one of
// its methods, and each of them notifies the observers, so persistence never
// depends on which store operation changed the sequence.
type lineItems struct {
	items     []domain.LineItem
	observers []Observer
}

func newLineItems(initial []domain.LineItem) *lineItems {
	items := make([]domain.LineItem, len(initial))
	copy(items, initial)
	return &lineItems{items: items}
}

// normalizeItems merges lines sharing a product id into the first of them and
// raises quantities below 1 to 1. It reports whether anything changed.
func normalizeItems(items []domain.LineItem) ([]domain.LineItem, bool) {
	out := make([]domain.LineItem, 0, len(items))
	index := make(map[domain.ID]int, len(items))
	changed := false
	for _, it := range items {
		if it.Quantity < 1 {
			it.Quantity = 1
			changed = true
		}
		if i, ok := index[it.ID]; ok {
			out[i].Quantity += it.Quantity
			changed = true
			continue
		}
		index[it.ID] = len(out)
		out = append(out, it)
	}
	return out, changed
}

func (l *lineItems) observe(fn Observer) {
	l.observers = append(l.observers, fn)
}

func (l *lineItems) notify() {
	for _, fn := range l.observers {
		fn(l.snapshot())
	}
}

func (l *lineItems) snapshot() []domain.LineItem {
	out := make([]domain.LineItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *lineItems) len() int {
	return len(l.items)
}

func (l *lineItems) at(i int) domain.LineItem {
	return l.items[i]
}

func (l *lineItems) indexOf(id domain.ID) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (l *lineItems) push(item domain.LineItem) {
	l.items = append(l.items, item)
	l.notify()
}

func (l *lineItems) removeAt(i int) domain.LineItem {
	removed := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.notify()
	return removed
}

func (l *lineItems) reset() {
	l.items = l.items[:0]
	l.notify()
}

// setQuantity changes the quantity at i and notifies only when it differs.
func (l *lineItems) setQuantity(i, quantity int) bool {
	if l.items[i].Quantity == quantity {
		return false
	}
	l.items[i].Quantity = quantity
	l.notify()
	return true
}
