package services

import (
	"context"
	"testing"

	"github.com/amirfagh/justeat/configs"
	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/repository"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := configs.ConnectionDB("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := configs.SetupDatabase(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db       *gorm.DB
	seq      *repository.SequenceRepository
	orders   *OrderService
	users    *repository.UserRepository
	menu     *repository.MenuRepository
	carts    *CartStore
	checkout *CheckoutService
	cartSvc  *CartService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:    db,
		seq:   repository.NewSequenceRepository(db),
		users: repository.NewUserRepository(db),
		menu:  repository.NewMenuRepository(db),
		carts: NewCartStore(),
	}
	tx := repository.NewTransactor(db, 3)
	tx.Backoff = 0
	f.orders = NewOrderService(tx, repository.NewOrderRepository(db), f.seq, f.users, nil)
	f.checkout = NewCheckoutService(f.carts, f.orders, f.users)
	f.cartSvc = NewCartService(f.carts, f.menu)
	return f
}

func (f *fixture) seedSequence(t *testing.T, start int64) {
	t.Helper()
	if err := f.seq.Seed(context.Background(), start); err != nil {
		t.Fatalf("seed sequence: %v", err)
	}
}

func (f *fixture) addUser(t *testing.T, uid string) *entity.User {
	t.Helper()
	u := &entity.User{
		UID: uid, Email: uid + "@example.com", Name: "User " + uid,
		PhoneNumber: "+970500000000", Address: "Main St 1", Role: RoleCustomer, Orders: []string{},
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) seedMenu(t *testing.T) {
	t.Helper()
	items := []entity.MenuItem{
		{
			ID: "shawarma", Name: "Shawarma", NameLocalized: "شاورما", Price: "25", Category: "Sandwiches",
			Options: []entity.MenuOption{
				{ID: "onion", Name: "Onion", Selected: true, SortOrder: 1},
				{ID: "cheese", Name: "Cheese", AdditionalPrice: "3", SortOrder: 2},
				{ID: "fries", Name: "Fries inside", AdditionalPrice: "2.5", Selected: true, SortOrder: 3},
			},
		},
		{ID: "cola", Name: "Cola", Price: "5", Category: "Beverages"},
		{ID: "wrap", Name: "Mystery Wrap", Price: "12", Category: "Specials"},
	}
	for i := range items {
		if err := f.menu.Upsert(context.Background(), &items[i]); err != nil {
			t.Fatalf("upsert menu: %v", err)
		}
	}
}

func (f *fixture) userOrders(t *testing.T, uid string) []string {
	t.Helper()
	u, err := f.users.FindByUID(context.Background(), uid)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	return u.Orders
}

func (f *fixture) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&entity.Order{}).Count(&n).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	return n
}

func sampleLines() []CartLine {
	return []CartLine{
		{Name: "Shawarma", Price: "25", Category: "Sandwiches", Options: []CartOption{{Name: "Cheese", AdditionalPrice: "3"}}},
		{Name: "Cola", Price: "5", Category: "Beverages"},
	}
}
