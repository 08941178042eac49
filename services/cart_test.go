package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mob001(qty int) AddItemInput {
	return AddItemInput{
		ProductID:   "p-1",
		ProductCode: "MOB001",
		Name:        "Phone X",
		Price:       dec("10000"),
		Quantity:    qty,
		Variant:     models.Variant{Color: "Black", Ram: "8GB"},
	}
}

func TestGetCartWithoutCartReturnsEmptyView(t *testing.T) {
	f := newFixture(t)

	cart, err := f.carts.GetCart(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalPrice.IsZero())

	_, err = f.stores.Carts.FindCartByUser(context.Background(), "u-1")
	assert.ErrorIs(t, err, store.ErrNotFound, "reading must not create a cart")
}

func TestAddItemMergesSameProductAndVariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "u-1", mob001(1))
	require.NoError(t, err)
	cart, err := f.carts.AddItem(ctx, "u-1", mob001(2))
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, dec("30000").Equal(cart.Items[0].Subtotal))
	assert.Equal(t, 3, cart.TotalItems)
	assert.True(t, dec("30000").Equal(cart.TotalPrice))
}

func TestAddItemDifferentVariantAddsLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "u-1", mob001(1))
	require.NoError(t, err)
	white := mob001(1)
	white.Color = "White"
	cart, err := f.carts.AddItem(ctx, "u-1", white)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.NotEqual(t, cart.Items[0].ID, cart.Items[1].ID)
	assert.Equal(t, 2, cart.TotalItems)
	assert.True(t, dec("20000").Equal(cart.TotalPrice))
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	f := newFixture(t)

	cart, err := f.carts.AddItem(context.Background(), "u-1", mob001(0))
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestAddItemValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AddItemInput)
	}{
		{"missing product code", func(in *AddItemInput) { in.ProductCode = "" }},
		{"missing name", func(in *AddItemInput) { in.Name = " " }},
		{"missing product id", func(in *AddItemInput) { in.ProductID = "" }},
		{"zero price", func(in *AddItemInput) { in.Price = dec("0") }},
		{"negative quantity", func(in *AddItemInput) { in.Quantity = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := mob001(1)
			tt.mutate(&in)

			_, err := f.carts.AddItem(context.Background(), "u-1", in)
			requireKind(t, err, KindValidation)

			_, err = f.stores.Carts.FindCartByUser(context.Background(), "u-1")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestAddItemUsesCatalogSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product, err := f.stores.Products.CreateProduct(ctx, models.Product{
		Code:     "MOB001",
		Name:     "Phone X Pro",
		Category: "mobiles",
		Price:    dec("12499.50"),
		Images:   []string{"https://cdn.example.com/x.png"},
	})
	require.NoError(t, err)

	cart, err := f.carts.AddItem(ctx, "u-1", AddItemInput{ProductCode: "MOB001", Quantity: 2, Price: dec("1")})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	line := cart.Items[0]
	assert.Equal(t, product.ID, line.ProductID)
	assert.Equal(t, "Phone X Pro", line.Name)
	assert.True(t, dec("12499.50").Equal(line.Price))
	assert.Equal(t, "https://cdn.example.com/x.png", line.Image)
	assert.True(t, dec("24999").Equal(cart.TotalPrice))
}

func TestUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cart, err := f.carts.AddItem(ctx, "u-1", mob001(1))
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	t.Run("sets quantity and totals", func(t *testing.T) {
		updated, err := f.carts.UpdateQuantity(ctx, "u-1", itemID, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Items[0].Quantity)
		assert.Equal(t, 4, updated.TotalItems)
		assert.True(t, dec("40000").Equal(updated.TotalPrice))
	})

	t.Run("unknown line", func(t *testing.T) {
		_, err := f.carts.UpdateQuantity(ctx, "u-1", "nope", 2)
		requireKind(t, err, KindNotFound)
	})

	t.Run("no cart", func(t *testing.T) {
		_, err := f.carts.UpdateQuantity(ctx, "u-2", itemID, 2)
		requireKind(t, err, KindNotFound)
	})

	t.Run("quantity below one leaves cart unchanged", func(t *testing.T) {
		_, err := f.carts.UpdateQuantity(ctx, "u-1", itemID, 0)
		requireKind(t, err, KindValidation)

		stored, err := f.carts.GetCart(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, 4, stored.Items[0].Quantity)
	})
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, "u-1", mob001(1))
	require.NoError(t, err)
	tv := AddItemInput{ProductID: "p-2", ProductCode: "TV001", Name: "TV", Price: dec("500"), Quantity: 2}
	cart, err := f.carts.AddItem(ctx, "u-1", tv)
	require.NoError(t, err)

	cart, err = f.carts.RemoveItem(ctx, "u-1", cart.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "TV001", cart.Items[0].ProductCode)
	assert.Equal(t, 2, cart.TotalItems)
	assert.True(t, dec("1000").Equal(cart.TotalPrice))

	_, err = f.carts.RemoveItem(ctx, "u-1", "missing")
	requireKind(t, err, KindNotFound)
}

func TestClearCartKeepsDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.ClearCart(ctx, "u-1")
	requireKind(t, err, KindNotFound)

	_, err = f.carts.AddItem(ctx, "u-1", mob001(2))
	require.NoError(t, err)
	cart, err := f.carts.ClearCart(ctx, "u-1")
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalPrice.IsZero())

	stored, err := f.stores.Carts.FindCartByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, stored.ID)
}

type failingCarts struct{ store.CartStore }

func (failingCarts) FindCartByUser(context.Context, string) (models.Cart, error) {
	return models.Cart{}, errors.New("connection reset")
}

func TestCartStorageFailureIsUnexpected(t *testing.T) {
	svc := NewCartService(failingCarts{}, nil, zap.NewNop())

	_, err := svc.GetCart(context.Background(), "u-1")
	requireKind(t, err, KindUnexpected)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestLineQuantityIsCapped(t *testing.T) {
	ctx := context.Background()

	t.Run("huge quantity rejected before merge", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.carts.AddItem(ctx, "u-1", mob001(math.MaxInt64))
		requireKind(t, err, KindValidation)

		_, err = f.stores.Carts.FindCartByUser(ctx, "u-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("merge past the cap rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.carts.AddItem(ctx, "u-1", mob001(maxLineQuantity))
		require.NoError(t, err)

		_, err = f.carts.AddItem(ctx, "u-1", mob001(1))
		requireKind(t, err, KindValidation)

		stored, err := f.stores.Carts.FindCartByUser(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, stored.Items, 1)
		assert.Equal(t, maxLineQuantity, stored.Items[0].Quantity)
		assert.True(t, stored.TotalPrice.IsPositive())
	})

	t.Run("update past the cap rejected", func(t *testing.T) {
		f := newFixture(t)
		cart, err := f.carts.AddItem(ctx, "u-1", mob001(1))
		require.NoError(t, err)

		_, err = f.carts.UpdateQuantity(ctx, "u-1", cart.Items[0].ID, math.MaxInt64)
		requireKind(t, err, KindValidation)
	})
}
