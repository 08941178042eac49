// Package mongostore keeps each cart, order, user and product as a single
// MongoDB document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cartsCollection    = "carts"
	ordersCollection   = "orders"
	usersCollection    = "users"
	productsCollection = "products"
)

type Store struct {
	client   *mongo.Client
	carts    *mongo.Collection
	orders   *mongo.Collection
	users    *mongo.Collection
	products *mongo.Collection
}

// Connect dials uri and selects database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(NewRegistry()))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(database)
	return &Store{
		client:   client,
		carts:    db.Collection(cartsCollection),
		orders:   db.Collection(ordersCollection),
		users:    db.Collection(usersCollection),
		products: db.Collection(productsCollection),
	}, nil
}

// EnsureIndexes creates the uniqueness constraints the services rely on,
// most importantly one cart per user.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.carts, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique}},
		{s.orders, mongo.IndexModel{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: unique}},
		{s.orders, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
		{s.orders, mongo.IndexModel{Keys: bson.D{{Key: "order_status", Value: 1}}}},
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		{s.products, mongo.IndexModel{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique}},
		{s.products, mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Stores() store.Stores {
	return store.Stores{
		Carts:    s,
		Orders:   s,
		Users:    s,
		Products: s,
		Close:    s.client.Disconnect,
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

func (s *Store) FindCartByUser(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	return cart, translate(err)
}

// cartUpsert keys the write on user_id so there is one cart per user; the id
// is only set when the document is first inserted.
func cartUpsert(cart models.Cart, now time.Time) (filter, update bson.M) {
	id := cart.ID
	if id == "" {
		id = uuid.NewString()
	}
	filter = bson.M{"user_id": cart.UserID}
	update = bson.M{
		"$set": bson.M{
			"items":       cart.Items,
			"total_items": cart.TotalItems,
			"total_price": cart.TotalPrice,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"_id":        id,
			"created_at": now,
		},
	}
	return filter, update
}

func (s *Store) SaveCart(ctx context.Context, cart models.Cart) (models.Cart, error) {
	filter, update := cartUpsert(cart, time.Now().UTC())
	_, err := s.carts.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return models.Cart{}, translate(err)
	}
	return s.FindCartByUser(ctx, cart.UserID)
}

func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if _, err := s.orders.InsertOne(ctx, order); err != nil {
		return models.Order{}, translate(err)
	}
	return order, nil
}

func (s *Store) FindOrder(ctx context.Context, id string) (models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	return order, translate(err)
}

func orderQuery(filter store.OrderFilter) bson.M {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	status := bson.M{}
	if filter.Status != "" {
		status["$eq"] = filter.Status
	}
	if len(filter.ExcludeStatuses) > 0 {
		status["$nin"] = filter.ExcludeStatuses
	}
	if len(status) > 0 {
		query["order_status"] = status
	}
	return query
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	direction := -1
	if filter.OldestFirst {
		direction = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: direction}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := s.orders.Find(ctx, orderQuery(filter), opts)
	if err != nil {
		return nil, translate(err)
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (s *Store) CountOrders(ctx context.Context, filter store.OrderFilter) (int64, error) {
	n, err := s.orders.CountDocuments(ctx, orderQuery(filter))
	return n, translate(err)
}

// orderStatusUpdate touches the two status fields only; items and amounts
// are frozen at creation.
func orderStatusUpdate(order models.Order, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"order_status":   order.OrderStatus,
			"payment_status": order.PaymentStatus,
			"updated_at":     now,
		},
	}
}

func (s *Store) SaveOrder(ctx context.Context, order models.Order) (models.Order, error) {
	result, err := s.orders.UpdateOne(ctx, bson.M{"_id": order.ID}, orderStatusUpdate(order, time.Now().UTC()))
	if err != nil {
		return models.Order{}, translate(err)
	}
	if result.MatchedCount == 0 {
		return models.Order{}, store.ErrNotFound
	}
	return s.FindOrder(ctx, order.ID)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	result, err := s.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, translate(err)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, translate(err)
}

func (s *Store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	user.UpdatedAt = time.Now().UTC()
	result, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return models.User{}, translate(err)
	}
	if result.MatchedCount == 0 {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (s *Store) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if _, err := s.products.InsertOne(ctx, product); err != nil {
		return models.Product{}, translate(err)
	}
	return product, nil
}

func (s *Store) FindProductByCode(ctx context.Context, code string) (models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"code": code}).Decode(&product)
	return product, translate(err)
}

func (s *Store) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	cursor, err := s.products.Find(ctx, bson.M{"category": category}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (s *Store) SaveProduct(ctx context.Context, product models.Product) (models.Product, error) {
	product.UpdatedAt = time.Now().UTC()
	result, err := s.products.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return models.Product{}, translate(err)
	}
	if result.MatchedCount == 0 {
		return models.Product{}, store.ErrNotFound
	}
	return product, nil
}
