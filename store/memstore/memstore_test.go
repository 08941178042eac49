package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCartUpsertsByUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.SaveCart(ctx, models.Cart{UserID: "u-1", Items: []models.CartItem{{ID: "a", Quantity: 1}}})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := s.SaveCart(ctx, models.Cart{UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	stored, err := s.FindCartByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, stored.Items)
}

func TestFindCartReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.SaveCart(ctx, models.Cart{UserID: "u-1", Items: []models.CartItem{{ID: "a", Quantity: 1}}})
	require.NoError(t, err)

	cart, err := s.FindCartByUser(ctx, "u-1")
	require.NoError(t, err)
	cart.Items[0].Quantity = 99

	again, err := s.FindCartByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
}

func TestListOrdersOrderingAndFilters(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, status := range []models.OrderStatus{models.OrderStatusPending, models.OrderStatusDelivered, models.OrderStatusPending} {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		_, err := s.CreateOrder(ctx, models.Order{OrderNumber: "ORD" + string(rune('A'+i)), UserID: "u-1", OrderStatus: status})
		require.NoError(t, err)
	}

	newest, err := s.ListOrders(ctx, store.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, "ORDC", newest[0].OrderNumber)

	oldest, err := s.ListOrders(ctx, store.OrderFilter{OldestFirst: true, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, oldest, 1)
	assert.Equal(t, "ORDB", oldest[0].OrderNumber)

	open, err := s.CountOrders(ctx, store.OrderFilter{ExcludeStatuses: []models.OrderStatus{models.OrderStatusDelivered}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, open)

	beyond, err := s.ListOrders(ctx, store.OrderFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestUniqueConstraints(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateOrder(ctx, models.Order{OrderNumber: "ORD1"})
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, models.Order{OrderNumber: "ORD1"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.CreateUser(ctx, models.User{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, models.User{Email: "A@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.CreateProduct(ctx, models.Product{Code: "P1"})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, models.Product{Code: "P1"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestMissingRecords(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.SaveOrder(ctx, models.Order{ID: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteOrder(ctx, "x"), store.ErrNotFound)
	_, err = s.SaveUser(ctx, models.User{ID: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindProductByCode(ctx, "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
