// Package store declares the persistence ports used by the services and the
// sentinel errors every adapter returns.
package store

import (
	"context"
	"errors"

	"github.com/Kariqs/storefront-api/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// CartStore keeps exactly one cart document per user.
type CartStore interface {
	FindCartByUser(ctx context.Context, userID string) (models.Cart, error)
	// SaveCart inserts or replaces the cart owned by cart.UserID.
	SaveCart(ctx context.Context, cart models.Cart) (models.Cart, error)
}

type OrderFilter struct {
	UserID string
	Status models.OrderStatus
	// ExcludeStatuses drops orders whose status is listed.
	ExcludeStatuses []models.OrderStatus
	Limit           int
	Offset          int
	OldestFirst     bool
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	FindOrder(ctx context.Context, id string) (models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	CountOrders(ctx context.Context, filter OrderFilter) (int64, error)
	SaveOrder(ctx context.Context, order models.Order) (models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	SaveUser(ctx context.Context, user models.User) (models.User, error)
}

type ProductStore interface {
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	FindProductByCode(ctx context.Context, code string) (models.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	SaveProduct(ctx context.Context, product models.Product) (models.Product, error)
}

// Stores bundles one adapter's implementations of every port.
type Stores struct {
	Carts    CartStore
	Orders   OrderStore
	Users    UserStore
	Products ProductStore
	Close    func(ctx context.Context) error
}
