package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	msgOrderNotFound   = "Order not found"
	msgIncompleteShip  = "Please complete your profile with shipping address before placing order"
	msgCartEmpty       = "Cart is empty"
	msgNoItemsProvided = "No items provided"
)

// OrderNotifier is told about every order that is created or changes status.
// Implementations must not fail the operation that triggered them.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order models.Order)
	OrderUpdated(ctx context.Context, order models.Order)
}

type nopNotifier struct{}

func (nopNotifier) OrderPlaced(context.Context, models.Order)  {}
func (nopNotifier) OrderUpdated(context.Context, models.Order) {}

type OrderService struct {
	carts          store.CartStore
	orders         store.OrderStore
	users          store.UserStore
	notifier       OrderNotifier
	deliveryCharge decimal.Decimal
	log            *zap.Logger
	now            func() time.Time
}

func NewOrderService(carts store.CartStore, orders store.OrderStore, users store.UserStore, notifier OrderNotifier, deliveryCharge decimal.Decimal, log *zap.Logger) *OrderService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &OrderService{
		carts:          carts,
		orders:         orders,
		users:          users,
		notifier:       notifier,
		deliveryCharge: deliveryCharge,
		log:            log,
		now:            time.Now,
	}
}

// OrderItemInput is one item of a buy-now order.
type OrderItemInput struct {
	ProductID   string          `json:"productId"`
	ProductCode string          `json:"productCode"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image"`
	models.Variant
}

// OrderSource says where the items of a new order come from: the user's cart,
// or an explicit list that leaves the cart untouched.
type OrderSource struct {
	fromCart bool
	items    []OrderItemInput
}

func FromCart() OrderSource { return OrderSource{fromCart: true} }

func FromItems(items []OrderItemInput) OrderSource { return OrderSource{items: items} }

// CheckoutOptions carries the optional checkout fields. A nil DeliveryCharge
// means the configured default.
type CheckoutOptions struct {
	PaymentMethod  models.PaymentMethod
	DeliveryCharge *decimal.Decimal
}

// CreateOrderRequest is the body of POST /orders/create.
type CreateOrderRequest struct {
	FromCart       bool                 `json:"fromCart"`
	Items          []OrderItemInput     `json:"items"`
	PaymentMethod  models.PaymentMethod `json:"paymentMethod"`
	DeliveryCharge *decimal.Decimal     `json:"deliveryCharge"`
}

func (r CreateOrderRequest) Source() OrderSource {
	if r.FromCart {
		return FromCart()
	}
	return FromItems(r.Items)
}

func (r CreateOrderRequest) Options() CheckoutOptions {
	return CheckoutOptions{PaymentMethod: r.PaymentMethod, DeliveryCharge: r.DeliveryCharge}
}

// NewOrderNumber builds "ORD" followed by the creation time in milliseconds
// and a random upper-case suffix.
func NewOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD%d%s", at.UnixMilli(), suffix)
}

func (s *OrderService) shippingAddress(ctx context.Context, userID string) (models.ShippingAddress, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.ShippingAddress{}, NotFound("User not found")
	}
	if err != nil {
		return models.ShippingAddress{}, Unexpected("Error fetching user", err)
	}
	addr, ok := user.ShippingAddress()
	if !ok {
		return models.ShippingAddress{}, Validation(msgIncompleteShip)
	}
	return addr, nil
}

func (s *OrderService) checkoutOptions(opts CheckoutOptions) (models.PaymentMethod, decimal.Decimal, error) {
	method := opts.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCOD
	}
	if !method.Valid() {
		return "", decimal.Zero, Validation("Invalid payment method")
	}
	charge := s.deliveryCharge
	if opts.DeliveryCharge != nil {
		charge = *opts.DeliveryCharge
	}
	if charge.IsNegative() {
		return "", decimal.Zero, Validation("Delivery charge cannot be negative")
	}
	return method, charge, nil
}

func snapshotItems(inputs []OrderItemInput) (datatypes.JSONSlice[models.OrderItem], int, decimal.Decimal, error) {
	items := make(datatypes.JSONSlice[models.OrderItem], 0, len(inputs))
	totalItems := 0
	totalPrice := decimal.Zero
	for _, in := range inputs {
		quantity := in.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 || in.Price.IsNegative() || strings.TrimSpace(in.ProductCode) == "" {
			return nil, 0, decimal.Zero, Validation("Invalid order item")
		}
		if quantity > maxLineQuantity {
			return nil, 0, decimal.Zero, errQuantityTooLarge
		}
		item := models.OrderItem{
			ProductID:   in.ProductID,
			ProductCode: in.ProductCode,
			Name:        in.Name,
			Price:       in.Price,
			Image:       in.Image,
			Variant:     in.Variant,
			Quantity:    quantity,
			Subtotal:    models.LineSubtotal(in.Price, quantity),
		}
		items = append(items, item)
		totalItems += quantity
		totalPrice = totalPrice.Add(item.Subtotal)
	}
	return items, totalItems, totalPrice, nil
}

// drainCart snapshots the user's cart and saves it back empty. The cart is
// emptied before the order is written; a failed order write leaves it empty.
func (s *OrderService) drainCart(ctx context.Context, userID string) (datatypes.JSONSlice[models.OrderItem], int, decimal.Decimal, error) {
	cart, err := s.carts.FindCartByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, 0, decimal.Zero, Validation(msgCartEmpty)
	}
	if err != nil {
		return nil, 0, decimal.Zero, Unexpected("Error fetching cart", err)
	}
	if len(cart.Items) == 0 {
		return nil, 0, decimal.Zero, Validation(msgCartEmpty)
	}

	items := make(datatypes.JSONSlice[models.OrderItem], len(cart.Items))
	for i, line := range cart.Items {
		items[i] = models.OrderItemFromCart(line)
	}
	totalItems, totalPrice := cart.TotalItems, cart.TotalPrice

	cart.Items = nil
	if _, err := s.carts.SaveCart(ctx, models.RecomputeTotals(cart)); err != nil {
		return nil, 0, decimal.Zero, Unexpected("Error clearing cart", err)
	}
	return items, totalItems, totalPrice, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, userID string, source OrderSource, opts CheckoutOptions) (models.Order, error) {
	addr, err := s.shippingAddress(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}
	method, charge, err := s.checkoutOptions(opts)
	if err != nil {
		return models.Order{}, err
	}

	var (
		items      datatypes.JSONSlice[models.OrderItem]
		totalItems int
		totalPrice decimal.Decimal
	)
	if source.fromCart {
		items, totalItems, totalPrice, err = s.drainCart(ctx, userID)
	} else {
		if len(source.items) == 0 {
			return models.Order{}, Validation(msgNoItemsProvided)
		}
		items, totalItems, totalPrice, err = snapshotItems(source.items)
	}
	if err != nil {
		return models.Order{}, err
	}

	order, err := s.orders.CreateOrder(ctx, models.Order{
		ID:              uuid.NewString(),
		OrderNumber:     NewOrderNumber(s.now()),
		UserID:          userID,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentStatusPending,
		OrderStatus:     models.OrderStatusPending,
		TotalItems:      totalItems,
		TotalPrice:      totalPrice,
		DeliveryCharge:  charge,
		FinalAmount:     totalPrice.Add(charge),
	})
	if err != nil {
		return models.Order{}, Unexpected("Error creating order", err)
	}

	s.log.Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.Bool("from_cart", source.fromCart),
		zap.String("final_amount", order.FinalAmount.StringFixed(2)))
	s.notifier.OrderPlaced(ctx, order)
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.ListOrders(ctx, store.OrderFilter{UserID: userID})
	if err != nil {
		return nil, Unexpected("Error fetching orders", err)
	}
	return orders, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID string) (models.Order, error) {
	order, err := s.orders.FindOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, NotFound(msgOrderNotFound)
	}
	if err != nil {
		return models.Order{}, Unexpected("Error fetching order", err)
	}
	return order, nil
}

// GetUserOrder returns the order only to its owner; anyone else gets the same
// not-found answer as for a missing id.
func (s *OrderService) GetUserOrder(ctx context.Context, orderID, userID string) (models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, NotFound(msgOrderNotFound)
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	return s.getOrder(ctx, orderID)
}

// Page selects a slice of the admin order listing. Page is 1-based; a zero
// Limit returns everything.
type Page struct {
	Page        int
	Limit       int
	OldestFirst bool
}

type OrderPage struct {
	Orders     []models.Order `json:"orders"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

func (s *OrderService) ListAllOrders(ctx context.Context, page Page) (OrderPage, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 0 {
		page.Limit = 0
	}
	filter := store.OrderFilter{OldestFirst: page.OldestFirst, Limit: page.Limit}
	if page.Limit > 0 {
		filter.Offset = (page.Page - 1) * page.Limit
	}

	orders, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return OrderPage{}, Unexpected("Error fetching orders", err)
	}
	total, err := s.orders.CountOrders(ctx, store.OrderFilter{})
	if err != nil {
		return OrderPage{}, Unexpected("Error counting orders", err)
	}

	result := OrderPage{Orders: orders, Total: total, Page: page.Page, Limit: page.Limit, TotalPages: 1}
	if page.Limit > 0 {
		result.TotalPages = int((total + int64(page.Limit) - 1) / int64(page.Limit))
	}
	return result, nil
}

func (s *OrderService) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if !status.Valid() {
		return nil, Validation("Invalid order status")
	}
	orders, err := s.orders.ListOrders(ctx, store.OrderFilter{Status: status})
	if err != nil {
		return nil, Unexpected("Error fetching orders", err)
	}
	return orders, nil
}

// CountUndelivered counts orders still moving through fulfilment.
func (s *OrderService) CountUndelivered(ctx context.Context) (int64, error) {
	n, err := s.orders.CountOrders(ctx, store.OrderFilter{
		ExcludeStatuses: []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled},
	})
	if err != nil {
		return 0, Unexpected("Error counting orders", err)
	}
	return n, nil
}
