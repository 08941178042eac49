package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/Kariqs/storefront-api/store/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	stores    store.Stores
	carts     *CartService
	orders    *OrderService
	lifecycle *LifecycleService
	notifier  *recordingNotifier
	users     int
}

type recordingNotifier struct {
	mu      sync.Mutex
	placed  []models.Order
	updated []models.Order
}

func (r *recordingNotifier) OrderPlaced(_ context.Context, o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placed = append(r.placed, o)
}

func (r *recordingNotifier) OrderUpdated(_ context.Context, o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, o)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stores := memstore.New().Stores()
	notifier := &recordingNotifier{}
	log := zap.NewNop()
	return &fixture{
		stores:    stores,
		carts:     NewCartService(stores.Carts, stores.Products, log),
		orders:    NewOrderService(stores.Carts, stores.Orders, stores.Users, notifier, decimal.NewFromInt(40), log),
		lifecycle: NewLifecycleService(stores.Orders, notifier, log),
		notifier:  notifier,
	}
}

func (f *fixture) user(t *testing.T, complete bool) models.User {
	t.Helper()
	f.users++
	user := models.User{Name: "Asha", Email: fmt.Sprintf("asha%d@example.com", f.users), Role: models.RoleUser}
	if complete {
		user.Phone = "9999999999"
		user.Address = "12 MG Road"
		user.City = "Pune"
		user.State = "MH"
		user.PinCode = "411001"
	}
	created, err := f.stores.Users.CreateUser(context.Background(), user)
	require.NoError(t, err)
	return created
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}
