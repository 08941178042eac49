package gormstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), store.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), store.ErrDuplicate)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("sqlite", "file::memory:", nil)
	assert.Error(t, err)
}

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s := New(db)
	require.NoError(t, s.Migrate())
	return s
}

func cartLine(code string, qty int) models.CartItem {
	price := decimal.NewFromInt(100)
	return models.CartItem{ID: code, ProductCode: code, Name: code, Price: price, Quantity: qty, Subtotal: models.LineSubtotal(price, qty)}
}

func TestSaveCartKeepsOneRowPerUser(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	first, err := s.SaveCart(ctx, models.RecomputeTotals(models.Cart{
		UserID: "u-1",
		Items:  datatypes.JSONSlice[models.CartItem]{cartLine("A1", 1)},
	}))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	first.Items = append(first.Items, cartLine("B1", 2))
	second, err := s.SaveCart(ctx, models.RecomputeTotals(first))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Items, 2)
	assert.Equal(t, 3, second.TotalItems)
	assert.True(t, decimal.NewFromInt(300).Equal(second.TotalPrice))

	// a writer that never saw the stored row still lands on it
	third, err := s.SaveCart(ctx, models.RecomputeTotals(models.Cart{
		UserID: "u-1",
		Items:  datatypes.JSONSlice[models.CartItem]{cartLine("C1", 1)},
	}))
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	require.Len(t, third.Items, 1)
	assert.Equal(t, "C1", third.Items[0].ProductCode)

	var rows int64
	require.NoError(t, s.db.Model(&models.Cart{}).Where("user_id = ?", "u-1").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func newOrder(id string, status models.OrderStatus, createdAt time.Time) models.Order {
	return models.Order{
		ID:            id,
		OrderNumber:   "ORD-" + id,
		UserID:        "u-1",
		Items:         datatypes.JSONSlice[models.OrderItem]{{ProductCode: "A1", Name: "A", Price: decimal.NewFromInt(500), Quantity: 2, Subtotal: decimal.NewFromInt(1000)}},
		PaymentMethod: models.PaymentMethodCOD,
		PaymentStatus: models.PaymentStatusPending,
		OrderStatus:   status,
		TotalItems:    2,
		TotalPrice:    decimal.NewFromInt(1000),
		FinalAmount:   decimal.NewFromInt(1040),
		CreatedAt:     createdAt,
	}
}

func TestSaveOrderWritesStatusesOnly(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	created, err := s.CreateOrder(ctx, newOrder("o-1", models.OrderStatusPending, time.Now()))
	require.NoError(t, err)

	changed := created
	changed.OrderStatus = models.OrderStatusShipped
	changed.PaymentStatus = models.PaymentStatusPaid
	changed.Items = nil
	changed.TotalItems = 0
	changed.FinalAmount = decimal.Zero

	saved, err := s.SaveOrder(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, saved.OrderStatus)
	assert.Equal(t, models.PaymentStatusPaid, saved.PaymentStatus)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, 2, saved.TotalItems)
	assert.True(t, decimal.NewFromInt(1040).Equal(saved.FinalAmount))

	_, err = s.SaveOrder(ctx, models.Order{ID: "missing", OrderStatus: models.OrderStatusShipped})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListOrdersFilters(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	statuses := []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusPending,
	}
	for i, status := range statuses {
		_, err := s.CreateOrder(ctx, newOrder(fmt.Sprintf("o-%d", i), status, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	pending, err := s.ListOrders(ctx, store.OrderFilter{Status: models.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "o-4", pending[0].ID, "newest first by default")

	open := store.OrderFilter{ExcludeStatuses: []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled}}
	count, err := s.CountOrders(ctx, open)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	page, err := s.ListOrders(ctx, store.OrderFilter{OldestFirst: true, Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "o-1", page[0].ID)
	assert.Equal(t, "o-2", page[1].ID)

	none, err := s.ListOrders(ctx, store.OrderFilter{UserID: "u-2"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteOrderMissing(t *testing.T) {
	s := newSQLiteStore(t)
	assert.ErrorIs(t, s.DeleteOrder(context.Background(), "nope"), store.ErrNotFound)
}
