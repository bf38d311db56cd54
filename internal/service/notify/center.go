// Package notify keeps the short-lived notifications shown alongside cart activity.
package notify

import (
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"storefront-shell/internal/domain"
)

// DefaultTTL is how long a notification stays visible unless removed earlier.
const DefaultTTL = 3000 * time.Millisecond

// Center holds live notifications in creation order.
type Center struct {
	mu        sync.Mutex
	items     []domain.Notification
	ttl       time.Duration
	listeners []listener
	nextID    int
	logger    logrus.FieldLogger

	now      func() time.Time
	schedule func(d time.Duration, fn func())
}

// New creates a Center. A non-positive ttl selects DefaultTTL.
func New(ttl time.Duration, logger logrus.FieldLogger) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:    ttl,
		logger: logger.WithField("component", "notify"),
		now:    time.Now,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// Add records a notification with the default lifetime.
func (c *Center) Add(kind domain.NotificationType, message string) domain.Notification {
	return c.AddWithTTL(kind, message, c.ttl)
}

// AddWithTTL records a notification that removes itself after ttl.
func (c *Center) AddWithTTL(kind domain.NotificationType, message string, ttl time.Duration) domain.Notification {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.now()
	n := domain.Notification{
		ID:        fmt.Sprintf("%d-%s", now.UnixMilli(), gonanoid.Must(8)),
		Type:      kind,
		Message:   message,
		Timestamp: now,
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	listeners := make([]listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{"type": kind, "id": n.ID}).Debug(message)
	c.schedule(ttl, func() { c.Remove(n.ID) })
	for _, l := range listeners {
		l.fn(n)
	}
	return n
}

// Remove drops the notification with id and reports whether it was present.
func (c *Center) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Center) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// List returns a copy of the live notifications, oldest first.
func (c *Center) List() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}

type listener struct {
	id int
	fn func(domain.Notification)
}

// Subscribe registers fn for every future notification. Listeners run in
// registration order. The returned func unregisters fn.
func (c *Center) Subscribe(fn func(domain.Notification)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}
