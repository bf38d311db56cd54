package notify

import (
	"strings"
	"testing"
	"time"

	"storefront-shell/internal/domain"
	"storefront-shell/internal/logging"
)

type scheduled struct {
	after time.Duration
	fn    func()
}

func newTestCenter(ttl time.Duration) (*Center, *[]scheduled) {
	var timers []scheduled
	c := New(ttl, logging.Discard())
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	c.schedule = func(d time.Duration, fn func()) {
		timers = append(timers, scheduled{after: d, fn: fn})
	}
	return c, &timers
}

func TestAdd_SchedulesExpiry(t *testing.T) {
	c, timers := newTestCenter(0)
	n := c.Add(domain.NotifySuccess, "added")

	if !strings.HasPrefix(n.ID, "1700000000000-") {
		t.Fatalf("expected time-derived id, got %q", n.ID)
	}
	if len(*timers) != 1 || (*timers)[0].after != DefaultTTL {
		t.Fatalf("expected one timer of %s, got %+v", DefaultTTL, *timers)
	}
	if got := c.List(); len(got) != 1 || got[0].Message != "added" {
		t.Fatalf("unexpected notifications: %+v", got)
	}

	(*timers)[0].fn()
	if got := c.List(); len(got) != 0 {
		t.Fatalf("expected notification expired, got %+v", got)
	}
}

func TestAdd_UniqueIDs(t *testing.T) {
	c, _ := newTestCenter(time.Second)
	a := c.Add(domain.NotifyInfo, "a")
	b := c.Add(domain.NotifyInfo, "b")
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both %q", a.ID)
	}
}

func TestRemove_EarlyThenTimerIsNoop(t *testing.T) {
	c, timers := newTestCenter(time.Second)
	keep := c.Add(domain.NotifyInfo, "keep")
	drop := c.Add(domain.NotifyWarning, "drop")

	if !c.Remove(drop.ID) {
		t.Fatalf("expected remove to report true")
	}
	if c.Remove(drop.ID) {
		t.Fatalf("expected second remove to report false")
	}
	(*timers)[1].fn()

	got := c.List()
	if len(got) != 1 || got[0].ID != keep.ID {
		t.Fatalf("unexpected notifications: %+v", got)
	}
}

func TestAddWithTTL_OverridesDefault(t *testing.T) {
	c, timers := newTestCenter(time.Second)
	c.AddWithTTL(domain.NotifyError, "boom", 50*time.Millisecond)
	if (*timers)[0].after != 50*time.Millisecond {
		t.Fatalf("expected custom ttl, got %s", (*timers)[0].after)
	}
}

func TestClearAndSubscribe(t *testing.T) {
	c, _ := newTestCenter(time.Second)
	var seen []string
	unsubscribe := c.Subscribe(func(n domain.Notification) { seen = append(seen, n.Message) })

	c.Add(domain.NotifyInfo, "one")
	unsubscribe()
	c.Add(domain.NotifyInfo, "two")
	c.Clear()

	if len(seen) != 1 || seen[0] != "one" {
		t.Fatalf("unexpected listener calls: %v", seen)
	}
	if len(c.List()) != 0 {
		t.Fatalf("expected cleared list")
	}
}

func TestRealTimerExpiry(t *testing.T) {
	c := New(10*time.Millisecond, logging.Discard())
	c.Add(domain.NotifyInfo, "short")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(c.List()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("notification did not expire")
}

func TestSubscribe_RegistrationOrder(t *testing.T) {
	c, _ := newTestCenter(time.Second)
	var calls []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		name := name
		c.Subscribe(func(domain.Notification) { calls = append(calls, name) })
	}
	c.Add(domain.NotifyInfo, "first")
	if got := strings.Join(calls, ""); got != "abcde" {
		t.Fatalf("expected listeners in registration order, got %q", got)
	}
}

func TestSubscribe_UnsubscribeKeepsOrder(t *testing.T) {
	c, _ := newTestCenter(time.Second)
	var calls []string
	c.Subscribe(func(domain.Notification) { calls = append(calls, "a") })
	drop := c.Subscribe(func(domain.Notification) { calls = append(calls, "b") })
	c.Subscribe(func(domain.Notification) { calls = append(calls, "c") })

	drop()
	drop()
	c.Add(domain.NotifyInfo, "x")
	if got := strings.Join(calls, ""); got != "ac" {
		t.Fatalf("expected a then c, got %q", got)
	}
}
