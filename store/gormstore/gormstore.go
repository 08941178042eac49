// Package gormstore persists carts, orders, users and products through gorm.
// Line items are kept as JSON columns so a cart or an order is read and
// written as one row, the way a document store would hold it.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

// Open connects with the named dialect ("mysql" or "postgres").
func Open(driver, dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{TranslateError: true}
	}
	switch driver {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), cfg)
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates every table the store needs.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}, &models.Order{})
}

func (s *Store) Stores() store.Stores {
	return store.Stores{
		Carts:    s,
		Orders:   s,
		Users:    s,
		Products: s,
		Close: func(context.Context) error {
			sqlDB, err := s.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

func (s *Store) FindCartByUser(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	return cart, translate(err)
}

// SaveCart updates the user's existing row in place. A cart without a stored
// row is inserted with an upsert on the unique user_id index, so a second
// writer racing on the first insert replaces the items of the winning row
// instead of creating another cart.
func (s *Store) SaveCart(ctx context.Context, cart models.Cart) (models.Cart, error) {
	db := s.db.WithContext(ctx)
	if cart.ID != "" {
		result := db.Model(&models.Cart{}).
			Where("id = ? AND user_id = ?", cart.ID, cart.UserID).
			Updates(map[string]any{
				"items":       cart.Items,
				"total_items": cart.TotalItems,
				"total_price": cart.TotalPrice,
			})
		if result.Error != nil {
			return models.Cart{}, translate(result.Error)
		}
		if result.RowsAffected > 0 {
			return s.FindCartByUser(ctx, cart.UserID)
		}
	} else {
		cart.ID = uuid.NewString()
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "total_items", "total_price", "updated_at"}),
	}).Create(&cart).Error
	if err != nil {
		return models.Cart{}, translate(err)
	}
	return s.FindCartByUser(ctx, cart.UserID)
}

func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return models.Order{}, translate(err)
	}
	return order, nil
}

func (s *Store) FindOrder(ctx context.Context, id string) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	return order, translate(err)
}

func (s *Store) orderQuery(ctx context.Context, filter store.OrderFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("order_status = ?", filter.Status)
	}
	if len(filter.ExcludeStatuses) > 0 {
		query = query.Where("order_status NOT IN ?", filter.ExcludeStatuses)
	}
	return query
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	sortOrder := "created_at desc"
	if filter.OldestFirst {
		sortOrder = "created_at asc"
	}
	query := s.orderQuery(ctx, filter).Order(sortOrder)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	orders := []models.Order{}
	if err := query.Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (s *Store) CountOrders(ctx context.Context, filter store.OrderFilter) (int64, error) {
	var count int64
	err := s.orderQuery(ctx, filter).Count(&count).Error
	return count, translate(err)
}

func (s *Store) SaveOrder(ctx context.Context, order models.Order) (models.Order, error) {
	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"order_status":   order.OrderStatus,
			"payment_status": order.PaymentStatus,
		})
	if result.Error != nil {
		return models.Order{}, translate(result.Error)
	}
	// MySQL reports zero affected rows when nothing changed, so a miss is
	// confirmed by the read below rather than by RowsAffected.
	return s.FindOrder(ctx, order.ID)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return user, translate(err)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, translate(err)
}

func (s *Store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

func (s *Store) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return models.Product{}, translate(err)
	}
	return product, nil
}

func (s *Store) FindProductByCode(ctx context.Context, code string) (models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	return product, translate(err)
}

func (s *Store) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.WithContext(ctx).Where("category = ?", category).Order("code").Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (s *Store) SaveProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if err := s.db.WithContext(ctx).Save(&product).Error; err != nil {
		return models.Product{}, translate(err)
	}
	return product, nil
}
