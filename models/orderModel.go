package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"

	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"

	PaymentMethodCOD        PaymentMethod = "COD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodCard       PaymentMethod = "Card"
	PaymentMethodNetBanking PaymentMethod = "NetBanking"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle step is expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodUPI, PaymentMethodCard, PaymentMethodNetBanking:
		return true
	}
	return false
}

// ShippingAddress is copied from the user profile when an order is created.
type ShippingAddress struct {
	Name    string `json:"name" bson:"name"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	PinCode string `json:"pinCode" bson:"pin_code"`
}

// OrderItem is the frozen copy of a cart line (or buy-now item) inside an order.
type OrderItem struct {
	ProductID   string          `json:"productId" bson:"product_id"`
	ProductCode string          `json:"productCode" bson:"product_code"`
	Name        string          `json:"name" bson:"name"`
	Price       decimal.Decimal `json:"price" bson:"price"`
	Image       string          `json:"image,omitempty" bson:"image,omitempty"`
	Variant     `bson:",inline"`
	Quantity    int             `json:"quantity" bson:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal" bson:"subtotal"`
}

func OrderItemFromCart(item CartItem) OrderItem {
	return OrderItem{
		ProductID:   item.ProductID,
		ProductCode: item.ProductCode,
		Name:        item.Name,
		Price:       item.Price,
		Image:       item.Image,
		Variant:     item.Variant,
		Quantity:    item.Quantity,
		Subtotal:    item.Subtotal,
	}
}

type Order struct {
	ID              string                         `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	OrderNumber     string                         `json:"orderNumber" gorm:"size:40;uniqueIndex;not null" bson:"order_number"`
	UserID          string                         `json:"userId" gorm:"size:36;index;not null" bson:"user_id"`
	Items           datatypes.JSONSlice[OrderItem] `json:"items" bson:"items"`
	ShippingAddress ShippingAddress                `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_" bson:"shipping_address"`
	PaymentMethod   PaymentMethod                  `json:"paymentMethod" gorm:"size:20" bson:"payment_method"`
	PaymentStatus   PaymentStatus                  `json:"paymentStatus" gorm:"size:20;default:'Pending'" bson:"payment_status"`
	OrderStatus     OrderStatus                    `json:"orderStatus" gorm:"size:20;index;default:'Pending'" bson:"order_status"`
	TotalItems      int                            `json:"totalItems" bson:"total_items"`
	TotalPrice      decimal.Decimal                `json:"totalPrice" gorm:"type:decimal(14,2)" bson:"total_price"`
	DeliveryCharge  decimal.Decimal                `json:"deliveryCharge" gorm:"type:decimal(14,2)" bson:"delivery_charge"`
	FinalAmount     decimal.Decimal                `json:"finalAmount" gorm:"type:decimal(14,2)" bson:"final_amount"`
	CreatedAt       time.Time                      `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time                      `json:"updatedAt" bson:"updated_at"`
}
