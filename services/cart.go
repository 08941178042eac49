package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	msgCartNotFound     = "Cart not found"
	msgCartItemNotFound = "Item not found in cart"
	msgMissingProduct   = "Missing required product information"

	// maxLineQuantity caps a single cart or order line.
	maxLineQuantity = 10000
)

var errQuantityTooLarge = Validation(fmt.Sprintf("Quantity cannot exceed %d", maxLineQuantity))

// CartService owns the single cart of each user. Every mutation is a
// read-modify-write of the whole cart followed by RecomputeTotals; concurrent
// writers for the same user are last-write-wins.
type CartService struct {
	carts   store.CartStore
	catalog store.ProductStore
	log     *zap.Logger
	newID   func() string
}

// NewCartService wires the cart engine. catalog may be nil, in which case the
// snapshot fields of an add request are taken as sent.
func NewCartService(carts store.CartStore, catalog store.ProductStore, log *zap.Logger) *CartService {
	return &CartService{carts: carts, catalog: catalog, log: log, newID: uuid.NewString}
}

type AddItemInput struct {
	ProductID      string          `json:"productId"`
	ProductCode    string          `json:"productCode"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	Image          string          `json:"image"`
	models.Variant
}

type UpdateQuantityInput struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity"`
}

func (s *CartService) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	cart, err := s.carts.FindCartByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.EmptyCart(userID), nil
	}
	if err != nil {
		return models.Cart{}, Unexpected("Error fetching cart", err)
	}
	return cart, nil
}

// snapshot fills the line snapshot from the catalog when the product code is
// known there.
func (s *CartService) snapshot(ctx context.Context, in AddItemInput) (AddItemInput, error) {
	in.ProductCode = strings.TrimSpace(in.ProductCode)
	if s.catalog == nil || in.ProductCode == "" {
		return in, nil
	}
	product, err := s.catalog.FindProductByCode(ctx, in.ProductCode)
	if errors.Is(err, store.ErrNotFound) {
		return in, nil
	}
	if err != nil {
		return in, Unexpected("Error looking up product", err)
	}
	in.ProductID = product.ID
	in.Name = product.Name
	in.Price = product.Price
	if image := product.PrimaryImage(); image != "" {
		in.Image = image
	}
	return in, nil
}

func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) (models.Cart, error) {
	in, err := s.snapshot(ctx, in)
	if err != nil {
		return models.Cart{}, err
	}
	if in.ProductID == "" || in.ProductCode == "" || strings.TrimSpace(in.Name) == "" || !in.Price.IsPositive() {
		return models.Cart{}, Validation(msgMissingProduct)
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return models.Cart{}, Validation("Quantity must be at least 1")
	}
	if in.Quantity > maxLineQuantity {
		return models.Cart{}, errQuantityTooLarge
	}

	cart, err := s.carts.FindCartByUser(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		cart = models.EmptyCart(userID)
	case err != nil:
		return models.Cart{}, Unexpected("Error adding item to cart", err)
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].Matches(in.ProductCode, in.Variant) {
			if cart.Items[i].Quantity > maxLineQuantity-in.Quantity {
				return models.Cart{}, errQuantityTooLarge
			}
			cart.Items[i].Quantity += in.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			ID:          s.newID(),
			ProductID:   in.ProductID,
			ProductCode: in.ProductCode,
			Name:        in.Name,
			Price:       in.Price,
			Image:       in.Image,
			Variant:     in.Variant,
			Quantity:    in.Quantity,
		})
	}

	saved, err := s.carts.SaveCart(ctx, models.RecomputeTotals(cart))
	if err != nil {
		return models.Cart{}, Unexpected("Error adding item to cart", err)
	}
	s.log.Debug("cart item added",
		zap.String("user_id", userID),
		zap.String("product_code", in.ProductCode),
		zap.Int("quantity", in.Quantity),
		zap.Bool("merged", merged))
	return saved, nil
}

// loadForUpdate returns the existing cart and the index of itemID in it.
func (s *CartService) loadForUpdate(ctx context.Context, userID, itemID string) (models.Cart, int, error) {
	cart, err := s.carts.FindCartByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Cart{}, -1, NotFound(msgCartNotFound)
	}
	if err != nil {
		return models.Cart{}, -1, Unexpected("Error fetching cart", err)
	}
	idx := cart.FindItem(itemID)
	if idx < 0 {
		return models.Cart{}, -1, NotFound(msgCartItemNotFound)
	}
	return cart, idx, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (models.Cart, error) {
	if itemID == "" || quantity < 1 {
		return models.Cart{}, Validation("Invalid item ID or quantity")
	}
	if quantity > maxLineQuantity {
		return models.Cart{}, errQuantityTooLarge
	}
	cart, idx, err := s.loadForUpdate(ctx, userID, itemID)
	if err != nil {
		return models.Cart{}, err
	}
	cart.Items[idx].Quantity = quantity

	saved, err := s.carts.SaveCart(ctx, models.RecomputeTotals(cart))
	if err != nil {
		return models.Cart{}, Unexpected("Error updating cart", err)
	}
	return saved, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (models.Cart, error) {
	cart, idx, err := s.loadForUpdate(ctx, userID, itemID)
	if err != nil {
		return models.Cart{}, err
	}
	cart.Items = append(cart.Items[:idx:idx], cart.Items[idx+1:]...)

	saved, err := s.carts.SaveCart(ctx, models.RecomputeTotals(cart))
	if err != nil {
		return models.Cart{}, Unexpected("Error removing item from cart", err)
	}
	return saved, nil
}

// ClearCart empties the cart but keeps the document so the one-cart-per-user
// index keeps holding.
func (s *CartService) ClearCart(ctx context.Context, userID string) (models.Cart, error) {
	cart, err := s.carts.FindCartByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Cart{}, NotFound(msgCartNotFound)
	}
	if err != nil {
		return models.Cart{}, Unexpected("Error clearing cart", err)
	}
	cart.Items = nil

	saved, err := s.carts.SaveCart(ctx, models.RecomputeTotals(cart))
	if err != nil {
		return models.Cart{}, Unexpected("Error clearing cart", err)
	}
	return saved, nil
}
