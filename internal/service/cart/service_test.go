package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"storefront-shell/internal/domain"
	"storefront-shell/internal/logging"
	cartrepo "storefront-shell/internal/repository/cart"
	"storefront-shell/internal/repository/kv"
)

type stubNotifier struct {
	added []domain.Notification
}

func (s *stubNotifier) Add(kind domain.NotificationType, message string) domain.Notification {
	n := domain.Notification{Type: kind, Message: message}
	s.added = append(s.added, n)
	return n
}

type stubRepo struct {
	loaded  []domain.LineItem
	loadErr error
	saves   [][]domain.LineItem
}

func (s *stubRepo) Load(context.Context) ([]domain.LineItem, error) {
	return s.loaded, s.loadErr
}

func (s *stubRepo) Save(_ context.Context, items []domain.LineItem) error {
	s.saves = append(s.saves, items)
	return nil
}

func newTestService(repo cartrepo.Repository) (*Service, *stubNotifier) {
	notes := &stubNotifier{}
	return New(context.Background(), repo, notes, logging.Discard()), notes
}

var (
	mug   = domain.Product{ID: "1", Title: "Mug", Price: 12.5, Images: []domain.ProductImage{{URL: "/mug.png"}}}
	shirt = domain.Product{ID: "2", Title: "Shirt", Price: 20, ImageURL: "/shirt.png"}
)

func TestAddItem_MergesAndKeepsFirstPrice(t *testing.T) {
	svc, notes := newTestService(&stubRepo{})

	if _, err := svc.AddItem(mug, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	repriced := mug
	repriced.Price = 99
	repriced.Title = "Renamed"
	if _, err := svc.AddItem(repriced, 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	items := svc.Items()
	if len(items) != 1 {
		t.Fatalf("expected a single line, got %+v", items)
	}
	got := items[0]
	if got.Quantity != 5 || got.Price != 12.5 || got.Title != "Mug" || got.ImageURL != "/mug.png" {
		t.Fatalf("unexpected line %+v", got)
	}
	if len(notes.added) != 2 || notes.added[0].Type != domain.NotifySuccess {
		t.Fatalf("expected two success notifications, got %+v", notes.added)
	}
	if !strings.Contains(notes.added[1].Message, "3 more") {
		t.Fatalf("unexpected merge message %q", notes.added[1].Message)
	}
}

func TestAddItem_CoercesNonPositiveQuantity(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	line, err := svc.AddItem(shirt, 0)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if line.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", line.Quantity)
	}
	if _, err := svc.AddItem(shirt, -4); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if got, _ := svc.Get("2"); got.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", got.Quantity)
	}
}

func TestAddItem_RequiresID(t *testing.T) {
	svc, notes := newTestService(&stubRepo{})
	if _, err := svc.AddItem(domain.Product{Title: "ghost"}, 1); !errors.Is(err, ErrProductIDRequired) {
		t.Fatalf("expected id error, got %v", err)
	}
	if len(notes.added) != 0 {
		t.Fatalf("expected no notification, got %+v", notes.added)
	}
}

func TestSetQuantity_ClampsToOne(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		svc, _ := newTestService(&stubRepo{})
		_, _ = svc.AddItem(mug, 4)
		if !svc.SetQuantity("1", n) {
			t.Fatalf("expected item found")
		}
		if got, _ := svc.Get("1"); got.Quantity != 1 {
			t.Fatalf("SetQuantity(%d): expected 1, got %d", n, got.Quantity)
		}
	}
}

func TestSetQuantity_NotifiesOnlyOnChange(t *testing.T) {
	repo := &stubRepo{}
	svc, notes := newTestService(repo)
	_, _ = svc.AddItem(mug, 1)
	saves := len(repo.saves)

	svc.SetQuantity("1", 0)
	if len(notes.added) != 1 {
		t.Fatalf("expected no notification for unchanged clamp, got %+v", notes.added)
	}
	if len(repo.saves) != saves {
		t.Fatalf("expected no save for unchanged quantity")
	}

	svc.SetQuantity("1", 3)
	if len(notes.added) != 2 || notes.added[1].Message != `Quantity of "Mug" updated` {
		t.Fatalf("unexpected notifications %+v", notes.added)
	}
	if svc.SetQuantity("missing", 2) {
		t.Fatalf("expected missing item to report false")
	}
}

func TestRemoveItem(t *testing.T) {
	svc, notes := newTestService(&stubRepo{})
	_, _ = svc.AddItem(mug, 1)
	_, _ = svc.AddItem(shirt, 1)

	if !svc.RemoveItem("1") {
		t.Fatalf("expected removal")
	}
	if svc.RemoveItem("1") {
		t.Fatalf("expected second removal to be a no-op")
	}
	last := notes.added[len(notes.added)-1]
	if last.Type != domain.NotifyInfo || last.Message != `"Mug" removed from cart` {
		t.Fatalf("unexpected notification %+v", last)
	}
	if items := svc.Items(); len(items) != 1 || items[0].ID != "2" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestRemoveThenAdd_ResnapshotsPrice(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	_, _ = svc.AddItem(mug, 2)
	svc.RemoveItem("1")

	repriced := mug
	repriced.Price = 15
	_, _ = svc.AddItem(repriced, 2)

	got, ok := svc.Get("1")
	if !ok || got.Quantity != 2 || got.Price != 15 {
		t.Fatalf("unexpected line %+v", got)
	}
}

func TestClear_SingleNotification(t *testing.T) {
	repo := &stubRepo{}
	svc, notes := newTestService(repo)
	_, _ = svc.AddItem(mug, 1)
	_, _ = svc.AddItem(shirt, 1)
	before := len(notes.added)

	svc.Clear()

	if len(svc.Items()) != 0 {
		t.Fatalf("expected empty cart")
	}
	if len(notes.added) != before+1 {
		t.Fatalf("expected exactly one notification for clear, got %d", len(notes.added)-before)
	}
	if last := repo.saves[len(repo.saves)-1]; len(last) != 0 {
		t.Fatalf("expected empty cart persisted, got %+v", last)
	}
}

func TestDerivedValues(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	_, _ = svc.AddItem(mug, 2)
	_, _ = svc.AddItem(shirt, 1)

	if svc.Count() != 3 {
		t.Fatalf("expected count 3, got %d", svc.Count())
	}
	if svc.Total() != 45 {
		t.Fatalf("expected total 45, got %v", svc.Total())
	}
	summary := svc.Summary()
	if summary.ItemCount != 3 || summary.TotalAmount != 45 || summary.Items[0].Subtotal != 25 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestToOrderPayload_OmitsPrice(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	_, _ = svc.AddItem(shirt, 1)
	_, _ = svc.AddItem(mug, 3)

	payload := svc.ToOrderPayload()
	if len(payload.Items) != 2 {
		t.Fatalf("expected 2 entries, got %+v", payload.Items)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"items":[{"product_id":2,"quantity":1},{"product_id":1,"quantity":3}]}` {
		t.Fatalf("unexpected payload %s", raw)
	}
	if strings.Contains(string(raw), "price") {
		t.Fatalf("payload must not include price: %s", raw)
	}
}

func TestValidate(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	res := svc.Validate()
	if res.IsValid || len(res.Errors) != 1 || res.Errors[0] != "Cart is empty" {
		t.Fatalf("unexpected empty cart validation %+v", res)
	}

	svc, _ = newTestService(&stubRepo{loaded: []domain.LineItem{
		{ID: "1", Title: "Free", Price: 0, Quantity: 1},
		{ID: "2", Title: "Broken", Price: 5, Quantity: 0},
	}})
	res = svc.Validate()
	if res.IsValid || len(res.Errors) != 2 {
		t.Fatalf("expected two problems, got %+v", res)
	}

	svc, _ = newTestService(&stubRepo{})
	_, _ = svc.AddItem(mug, 1)
	if res := svc.Validate(); !res.IsValid || len(res.Errors) != 0 {
		t.Fatalf("expected valid cart, got %+v", res)
	}
}

func TestEveryMutationPersists(t *testing.T) {
	repo := &stubRepo{}
	svc, _ := newTestService(repo)

	_, _ = svc.AddItem(mug, 1)
	_, _ = svc.AddItem(mug, 1)
	svc.SetQuantity("1", 5)
	_, _ = svc.AddItem(shirt, 1)
	svc.RemoveItem("2")
	svc.Clear()

	if len(repo.saves) != 6 {
		t.Fatalf("expected 6 saves, got %d", len(repo.saves))
	}
	if got := repo.saves[2]; len(got) != 1 || got[0].Quantity != 5 {
		t.Fatalf("unexpected third save %+v", got)
	}
}

func TestObserve_SeesEveryChange(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	var sizes []int
	svc.Observe(func(items []domain.LineItem) { sizes = append(sizes, len(items)) })

	_, _ = svc.AddItem(mug, 1)
	_, _ = svc.AddItem(shirt, 1)
	svc.RemoveItem("1")

	if len(sizes) != 3 || sizes[0] != 1 || sizes[1] != 2 || sizes[2] != 1 {
		t.Fatalf("unexpected observed sizes %v", sizes)
	}
	if svc.Status().LastUpdate.IsZero() {
		t.Fatalf("expected last update to be set")
	}
}

func TestNew_CorruptStorageStartsEmpty(t *testing.T) {
	svc, _ := newTestService(&stubRepo{loadErr: errors.Join(domain.ErrStorageCorrupt, errors.New("bad json"))})
	if len(svc.Items()) != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestRoundTrip_FreshProcess(t *testing.T) {
	store := kv.NewMemory()
	first, _ := newTestService(cartrepo.NewKV(store))
	_, _ = first.AddItem(shirt, 2)
	_, _ = first.AddItem(mug, 1)
	_, _ = first.AddItem(shirt, 1)

	second, _ := newTestService(cartrepo.NewKV(store))
	want := first.Items()
	got := second.Items()
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("item %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestProcessingAndConnectionStatus(t *testing.T) {
	svc, notes := newTestService(&stubRepo{})

	svc.SetProcessing(true)
	if !svc.Status().IsProcessing {
		t.Fatalf("expected processing flag")
	}
	svc.SetProcessing(false)
	svc.SetConnectionStatus(ConnectionConnected)
	svc.SetConnectionStatus(ConnectionConnected)
	svc.SetConnectionStatus(ConnectionDisconnected)

	want := []domain.NotificationType{domain.NotifyInfo, domain.NotifySuccess, domain.NotifySuccess, domain.NotifyWarning}
	if len(notes.added) != len(want) {
		t.Fatalf("expected %d notifications, got %+v", len(want), notes.added)
	}
	for i, kind := range want {
		if notes.added[i].Type != kind {
			t.Fatalf("notification %d: expected %s, got %s", i, kind, notes.added[i].Type)
		}
	}
}

func TestAddItem_RejectsNonFinitePrice(t *testing.T) {
	repo := &stubRepo{}
	svc, notes := newTestService(repo)
	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		p := domain.Product{ID: "9", Title: "Broken", Price: price}
		if _, err := svc.AddItem(p, 1); !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("price %v: expected ErrInvalidPrice, got %v", price, err)
		}
	}
	if svc.Count() != 0 || len(repo.saves) != 0 || len(notes.added) != 0 {
		t.Fatalf("rejected adds must leave the cart untouched")
	}

	store := kv.NewMemory()
	durable, _ := newTestService(cartrepo.NewKV(store))
	_, _ = durable.AddItem(domain.Product{ID: "9", Title: "Broken", Price: math.NaN()}, 1)
	if _, err := durable.AddItem(mug, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	reloaded, _ := newTestService(cartrepo.NewKV(store))
	if reloaded.Count() != 1 {
		t.Fatalf("expected later mutations to keep persisting, got %d items", reloaded.Count())
	}
}

func TestAddItem_MergeNotificationNamesStoredTitle(t *testing.T) {
	svc, notes := newTestService(&stubRepo{})
	_, _ = svc.AddItem(mug, 1)
	renamed := mug
	renamed.Title = "Mug (new edition)"
	_, _ = svc.AddItem(renamed, 2)

	want := `Added 2 more of "Mug"`
	if got := notes.added[len(notes.added)-1].Message; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNew_RepairsDuplicateAndInvalidLines(t *testing.T) {
	repo := &stubRepo{loaded: []domain.LineItem{
		{ID: "1", Title: "Mug", Price: 12.5, Quantity: 2},
		{ID: "2", Title: "Shirt", Price: 20, Quantity: 0},
		{ID: "1", Title: "Mug v2", Price: 99, Quantity: 3},
		{ID: "3", Title: "Cap", Price: 5, Quantity: -4},
	}}
	svc, _ := newTestService(repo)

	items := svc.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 lines, got %+v", items)
	}
	if items[0].ID != "1" || items[0].Quantity != 5 || items[0].Price != 12.5 || items[0].Title != "Mug" {
		t.Fatalf("expected merged first line keeping its snapshot, got %+v", items[0])
	}
	if items[1].Quantity != 1 || items[2].Quantity != 1 {
		t.Fatalf("expected quantities clamped to 1, got %+v", items)
	}
	if len(repo.saves) != 1 || len(repo.saves[0]) != 3 {
		t.Fatalf("expected repaired cart persisted once, got %+v", repo.saves)
	}
}

func TestNew_CleanCartIsNotRewritten(t *testing.T) {
	repo := &stubRepo{loaded: []domain.LineItem{{ID: "1", Title: "Mug", Price: 12.5, Quantity: 2}}}
	newTestService(repo)
	if len(repo.saves) != 0 {
		t.Fatalf("expected no save for a valid stored cart, got %d", len(repo.saves))
	}
}

func TestBeginProcessing_OnlyOnce(t *testing.T) {
	svc, notes := newTestService(&stubRepo{})

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if svc.BeginProcessing() {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if started != 1 {
		t.Fatalf("expected exactly one purchase to start, got %d", started)
	}
	if !svc.Status().IsProcessing || len(notes.added) != 1 || notes.added[0].Message != "Processing purchase..." {
		t.Fatalf("unexpected state %+v notes=%+v", svc.Status(), notes.added)
	}

	svc.SetProcessing(false)
	if !svc.BeginProcessing() {
		t.Fatalf("expected a new purchase to start after the previous one finished")
	}
}
