package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/pkg/events"
	"github.com/amirfagh/justeat/repository"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu   sync.Mutex
	seen []string
}

func (n *recordingNotifier) NotifyStatus(orderID string, status entity.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, orderID+":"+string(status))
}

func draftFor(uid string) *OrderDraft {
	return &OrderDraft{
		Lines:       sampleLines(),
		OrderType:   entity.OrderTypeDelivery,
		Address:     "Main St 1",
		UserUID:     uid,
		Name:        "Sam",
		PhoneNumber: "+970500000000",
	}
}

func TestPlaceOrderUsesNextSequence(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 41)
	f.addUser(t, "u1")
	ctx := context.Background()

	o, err := f.orders.PlaceOrder(ctx, draftFor("u1"))
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if o.ID != "0042" {
		t.Fatalf("order id = %q, want 0042", o.ID)
	}
	if cur, _ := f.seq.Get(ctx); cur != 42 {
		t.Fatalf("counter = %d, want 42", cur)
	}

	stored, err := f.orders.Repo.GetOrder(ctx, "0042")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if stored.Status != entity.StatusPending {
		t.Errorf("status = %s, want pending", stored.Status)
	}
	if stored.TotalPrice != "33.00" {
		t.Errorf("total = %s, want 33.00 (no delivery fee)", stored.TotalPrice)
	}
	if stored.UserUID != "u1" || stored.Address != "Main St 1" || stored.OrderType != entity.OrderTypeDelivery {
		t.Errorf("unexpected order fields: %+v", stored)
	}
	if stored.CreatedAt.IsZero() {
		t.Error("timestamp not set")
	}
	if len(stored.Items) != 2 || stored.Items[0].Options[0].Name != "Cheese" {
		t.Errorf("items snapshot = %+v", stored.Items)
	}

	if got := f.userOrders(t, "u1"); !slices.Equal(got, []string{"0042"}) {
		t.Fatalf("user orders = %v", got)
	}
}

func TestPlaceOrderMissingSequenceWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1")

	_, err := f.orders.PlaceOrder(context.Background(), draftFor("u1"))
	if !errors.Is(err, repository.ErrSequenceMissing) {
		t.Fatalf("err = %v, want ErrSequenceMissing", err)
	}
	if n := f.orderCount(t); n != 0 {
		t.Fatalf("orders = %d, want 0", n)
	}
	if got := f.userOrders(t, "u1"); len(got) != 0 {
		t.Fatalf("user orders = %v, want none", got)
	}
}

func TestPlaceOrderMissingUserRollsBack(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 7)

	_, err := f.orders.PlaceOrder(context.Background(), draftFor("ghost"))
	if !errors.Is(err, ErrPlaceOrderFailed) {
		t.Fatalf("err = %v, want ErrPlaceOrderFailed", err)
	}
	if n := f.orderCount(t); n != 0 {
		t.Fatalf("orders = %d, want 0", n)
	}
	if cur, _ := f.seq.Get(context.Background()); cur != 7 {
		t.Fatalf("counter = %d, want 7 (rolled back)", cur)
	}
}

func TestPlaceOrderSequentialOrdersAreContiguous(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 5)
	f.addUser(t, "u1")
	ctx := context.Background()

	const k = 4
	var ids []string
	for i := 0; i < k; i++ {
		o, err := f.orders.PlaceOrder(ctx, draftFor("u1"))
		if err != nil {
			t.Fatalf("PlaceOrder #%d: %v", i, err)
		}
		ids = append(ids, o.ID)
	}

	want := []string{"0006", "0007", "0008", "0009"}
	if !slices.Equal(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	if cur, _ := f.seq.Get(ctx); cur != 5+k {
		t.Fatalf("counter = %d, want %d", cur, 5+k)
	}
	if got := f.userOrders(t, "u1"); !slices.Equal(got, want) {
		t.Fatalf("user orders = %v, want %v", got, want)
	}
}

func TestPlaceOrderConcurrentSubmissionsGetDistinctIDs(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 0)
	const n = 16
	for i := 0; i < n; i++ {
		f.addUser(t, fmt.Sprintf("u%d", i))
	}

	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := f.orders.PlaceOrder(context.Background(), draftFor(fmt.Sprintf("u%d", i)))
			errs[i] = err
			if err == nil {
				ids[i] = o.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("submission %d: %v", i, errs[i])
		}
		if seen[ids[i]] {
			t.Fatalf("duplicate order id %s", ids[i])
		}
		seen[ids[i]] = true

		got := f.userOrders(t, fmt.Sprintf("u%d", i))
		if !slices.Equal(got, []string{ids[i]}) {
			t.Fatalf("user u%d orders = %v, want [%s]", i, got, ids[i])
		}
	}
	for i := 1; i <= n; i++ {
		if !seen[repository.FormatOrderID(int64(i))] {
			t.Errorf("missing order id %s", repository.FormatOrderID(int64(i)))
		}
	}
	if cur, _ := f.seq.Get(context.Background()); cur != n {
		t.Fatalf("counter = %d, want %d", cur, n)
	}
}

func TestPlaceOrderRetriesWholeBodyOnConflict(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 9)
	f.addUser(t, "u1")

	// first order insert loses a race; the retry must re-read the counter
	fired := false
	err := f.db.Callback().Create().Before("gorm:create").Register("test:conflict_once", func(tx *gorm.DB) {
		if tx.Statement.Table == "orders" && !fired {
			fired = true
			tx.AddError(repository.ErrConflict)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	o, err := f.orders.PlaceOrder(context.Background(), draftFor("u1"))
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if !fired {
		t.Fatal("conflict was never injected")
	}
	if o.ID != "0010" {
		t.Fatalf("id = %s, want 0010", o.ID)
	}
	if cur, _ := f.seq.Get(context.Background()); cur != 10 {
		t.Fatalf("counter = %d, want 10", cur)
	}
	if n := f.orderCount(t); n != 1 {
		t.Fatalf("orders = %d, want 1", n)
	}
}

func TestPlaceOrderFillsSnapshotDefaults(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 0)
	f.addUser(t, "u1")

	d := &OrderDraft{
		Lines:     []CartLine{{Options: []CartOption{{}}}},
		OrderType: entity.OrderTypePickUp,
		UserUID:   "u1",
	}
	o, err := f.orders.PlaceOrder(context.Background(), d)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	line := o.Items[0]
	if line.Name != "Unknown Name" || line.NameLocalized != "Unknown Name (Arabic)" ||
		line.Price != "0" || line.Category != "Unknown Category" {
		t.Errorf("line defaults = %+v", line)
	}
	if opt := line.Options[0]; opt.Name != "Unknown Option" || opt.AdditionalPrice != "0" {
		t.Errorf("option defaults = %+v", opt)
	}
	if o.Address != "No Address Provided" || o.Name != "unknown" || o.PhoneNumber != "unknown" {
		t.Errorf("order defaults = %+v", o)
	}
	if o.TotalPrice != "0.00" {
		t.Errorf("total = %s", o.TotalPrice)
	}
}

func TestPlaceOrderNotifiesSubscribers(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 0)
	f.addUser(t, "u1")
	n := &recordingNotifier{}
	f.orders.Notifier = n

	if _, err := f.orders.PlaceOrder(context.Background(), draftFor("u1")); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if !slices.Equal(n.seen, []string{"0001:pending"}) {
		t.Fatalf("notified = %v", n.seen)
	}
}

func TestGetOrderAccess(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 0)
	f.addUser(t, "u1")
	ctx := context.Background()
	if _, err := f.orders.PlaceOrder(ctx, draftFor("u1")); err != nil {
		t.Fatal(err)
	}

	if _, err := f.orders.Get(ctx, "u1", RoleCustomer, "0001"); err != nil {
		t.Errorf("owner: %v", err)
	}
	if _, err := f.orders.Get(ctx, "admin", RoleAdmin, "0001"); err != nil {
		t.Errorf("admin: %v", err)
	}
	if _, err := f.orders.Get(ctx, "u2", RoleCustomer, "0001"); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger err = %v, want ErrForbidden", err)
	}
	if _, err := f.orders.Get(ctx, "u1", RoleCustomer, "9999"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("missing err = %v", err)
	}
}

func TestLatestStatusAndHistory(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 0)
	f.addUser(t, "u1")
	ctx := context.Background()

	st, err := f.orders.LatestStatus(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if st.OrderID != "" || st.Message != "You don't have current orders, please place an order" {
		t.Fatalf("empty state = %+v", st)
	}

	for i := 0; i < 2; i++ {
		if _, err := f.orders.PlaceOrder(ctx, draftFor("u1")); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.orders.Advance(ctx, "0002", entity.StatusAccepted); err != nil {
		t.Fatal(err)
	}

	st, err = f.orders.LatestStatus(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if st.OrderID != "0002" || st.Status != entity.StatusAccepted || st.Message != "Order is being prepared at the restaurant" {
		t.Fatalf("latest = %+v", st)
	}

	// a dangling id in the list is skipped by history and falls back for status
	if err := f.db.Delete(&entity.Order{ID: "0002"}).Error; err != nil {
		t.Fatal(err)
	}
	hist, err := f.orders.History(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].ID != "0001" {
		t.Fatalf("history = %+v", hist)
	}
	st, _ = f.orders.LatestStatus(ctx, "u1")
	if st.OrderID != "" {
		t.Fatalf("latest after delete = %+v", st)
	}

	st, err = f.orders.LatestStatus(ctx, "nobody")
	if err != nil || st.OrderID != "" {
		t.Fatalf("unknown user = %+v, %v", st, err)
	}
}

func TestAdvanceIsForwardOnly(t *testing.T) {
	f := newFixture(t)
	f.seedSequence(t, 0)
	f.addUser(t, "u1")
	ctx := context.Background()
	if _, err := f.orders.PlaceOrder(ctx, draftFor("u1")); err != nil {
		t.Fatal(err)
	}
	n := &recordingNotifier{}
	f.orders.Notifier = n

	bad := []entity.OrderStatus{entity.StatusDelivery, entity.StatusDone, entity.StatusPending, "cooking"}
	for _, to := range bad {
		if _, err := f.orders.Advance(ctx, "0001", to); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("pending -> %s: err = %v, want ErrInvalidTransition", to, err)
		}
	}

	for _, to := range []entity.OrderStatus{entity.StatusAccepted, entity.StatusDelivery, entity.StatusDone} {
		o, err := f.orders.Advance(ctx, "0001", to)
		if err != nil {
			t.Fatalf("advance to %s: %v", to, err)
		}
		if o.Status != to {
			t.Fatalf("status = %s, want %s", o.Status, to)
		}
	}
	if _, err := f.orders.Advance(ctx, "0001", entity.StatusDone); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("done is terminal, err = %v", err)
	}
	if _, err := f.orders.Advance(ctx, "4242", entity.StatusAccepted); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("missing order err = %v", err)
	}

	want := []string{"0001:accepted", "0001:delivery", "0001:done"}
	if !slices.Equal(n.seen, want) {
		t.Fatalf("notified = %v, want %v", n.seen, want)
	}
}

func TestSeedSequenceOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cur, err := f.orders.SeedSequence(ctx, 100)
	if err != nil || cur != 100 {
		t.Fatalf("SeedSequence = %d, %v", cur, err)
	}
	if _, err := f.orders.SeedSequence(ctx, 1); !errors.Is(err, repository.ErrSequenceExists) {
		t.Fatalf("second seed err = %v", err)
	}
	if cur, _ := f.seq.Get(ctx); cur != 100 {
		t.Fatalf("counter = %d, want 100", cur)
	}
}

func TestStatusMessage(t *testing.T) {
	cases := map[entity.OrderStatus]string{
		entity.StatusPending:  "Waiting for the restaurant to accept the order",
		entity.StatusAccepted: "Order is being prepared at the restaurant",
		entity.StatusDelivery: "Order is being delivered",
		entity.StatusDone:     "You don't have current orders, please place an order",
	}
	for s, want := range cases {
		if got := StatusMessage(s); got != want {
			t.Errorf("StatusMessage(%s) = %q", s, got)
		}
	}
}

type recordingPublisher struct {
	events.Nop
	placed  []events.OrderPlaced
	changed []events.StatusChanged
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, e events.OrderPlaced) error {
	p.placed = append(p.placed, e)
	return nil
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, e events.StatusChanged) error {
	p.changed = append(p.changed, e)
	return nil
}

func TestOrderEventsArePublishedAfterCommit(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	f.orders.Publisher = pub
	f.addUser(t, "u1")
	ctx := context.Background()

	// nothing goes out for a failed submission
	if _, err := f.orders.PlaceOrder(ctx, draftFor("u1")); err == nil {
		t.Fatal("expected missing sequence")
	}
	if len(pub.placed) != 0 {
		t.Fatalf("published %d events for a failed order", len(pub.placed))
	}

	f.seedSequence(t, 0)
	if _, err := f.orders.PlaceOrder(ctx, draftFor("u1")); err != nil {
		t.Fatal(err)
	}
	if _, err := f.orders.Advance(ctx, "0001", entity.StatusAccepted); err != nil {
		t.Fatal(err)
	}

	if len(pub.placed) != 1 || pub.placed[0].OrderID != "0001" || pub.placed[0].TotalPrice != "33.00" || pub.placed[0].ItemCount != 2 {
		t.Fatalf("placed = %+v", pub.placed)
	}
	if len(pub.changed) != 1 || pub.changed[0].From != "pending" || pub.changed[0].To != "accepted" {
		t.Fatalf("changed = %+v", pub.changed)
	}
}
