// Package memstore is a process-local implementation of the store ports. It
// backs DB_DRIVER=memory and the service and controller tests.
package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	carts    map[string]models.Cart // by user id
	orders   map[string]models.Order
	users    map[string]models.User
	products map[string]models.Product // by code

	now func() time.Time
}

func New() *Store {
	return &Store{
		carts:    make(map[string]models.Cart),
		orders:   make(map[string]models.Order),
		users:    make(map[string]models.User),
		products: make(map[string]models.Product),
		now:      time.Now,
	}
}

// Stores exposes s through every port.
func (s *Store) Stores() store.Stores {
	return store.Stores{
		Carts:    s,
		Orders:   s,
		Users:    s,
		Products: s,
		Close:    func(context.Context) error { return nil },
	}
}

func cloneCart(c models.Cart) models.Cart {
	c.Items = slices.Clone(c.Items)
	return c
}

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func cloneProduct(p models.Product) models.Product {
	p.Images = slices.Clone(p.Images)
	p.Colors = slices.Clone(p.Colors)
	p.Ram = slices.Clone(p.Ram)
	p.Storage = slices.Clone(p.Storage)
	return p
}

func (s *Store) FindCartByUser(_ context.Context, userID string) (models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[userID]
	if !ok {
		return models.Cart{}, store.ErrNotFound
	}
	return cloneCart(cart), nil
}

func (s *Store) SaveCart(_ context.Context, cart models.Cart) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if existing, ok := s.carts[cart.UserID]; ok {
		cart.ID = existing.ID
		cart.CreatedAt = existing.CreatedAt
	}
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	s.carts[cart.UserID] = cloneCart(cart)
	return cloneCart(cart), nil
}

func (s *Store) CreateOrder(_ context.Context, order models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return models.Order{}, store.ErrDuplicate
		}
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if _, ok := s.orders[order.ID]; ok {
		return models.Order{}, store.ErrDuplicate
	}
	now := s.now()
	order.CreatedAt = now
	order.UpdatedAt = now
	s.orders[order.ID] = cloneOrder(order)
	return cloneOrder(order), nil
}

func (s *Store) FindOrder(_ context.Context, id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return cloneOrder(order), nil
}

func matchOrder(o models.Order, f store.OrderFilter) bool {
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.Status != "" && o.OrderStatus != f.Status {
		return false
	}
	return !slices.Contains(f.ExcludeStatuses, o.OrderStatus)
}

func (s *Store) ListOrders(_ context.Context, filter store.OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if matchOrder(o, filter) {
			orders = append(orders, cloneOrder(o))
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			if filter.OldestFirst {
				return a.OrderNumber < b.OrderNumber
			}
			return a.OrderNumber > b.OrderNumber
		}
		if filter.OldestFirst {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(orders) {
			return []models.Order{}, nil
		}
		orders = orders[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(orders) {
		orders = orders[:filter.Limit]
	}
	return orders, nil
}

func (s *Store) CountOrders(_ context.Context, filter store.OrderFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, o := range s.orders {
		if matchOrder(o, filter) {
			n++
		}
	}
	return n, nil
}

func (s *Store) SaveOrder(_ context.Context, order models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.orders[order.ID]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	order.CreatedAt = existing.CreatedAt
	order.UpdatedAt = s.now()
	s.orders[order.ID] = cloneOrder(order)
	return cloneOrder(order), nil
}

func (s *Store) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return models.User{}, store.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (s *Store) SaveUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = s.now()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) CreateProduct(_ context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.Code]; ok {
		return models.Product{}, store.ErrDuplicate
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := s.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.Code] = cloneProduct(product)
	return cloneProduct(product), nil
}

func (s *Store) FindProductByCode(_ context.Context, code string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[code]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return cloneProduct(product), nil
}

func (s *Store) ListProductsByCategory(_ context.Context, category string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := []models.Product{}
	for _, p := range s.products {
		if p.Category == category {
			products = append(products, cloneProduct(p))
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Code < products[j].Code })
	return products, nil
}

func (s *Store) SaveProduct(_ context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[product.Code]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.now()
	s.products[product.Code] = cloneProduct(product)
	return cloneProduct(product), nil
}
