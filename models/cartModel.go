package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func init() {
	// Prices travel as JSON numbers, the way the storefront client sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Variant is the combination of optional product options that, together with
// the product code, identifies a cart line. An empty field means the option
// was not selected.
type Variant struct {
	Color   string `json:"selectedColor,omitempty" bson:"selected_color,omitempty"`
	Ram     string `json:"selectedRam,omitempty" bson:"selected_ram,omitempty"`
	Storage string `json:"selectedStorage,omitempty" bson:"selected_storage,omitempty"`
}

// CartItem is one merged line of a cart. Name, Price and Image are copied from
// the catalog when the line is created and never follow later catalog edits.
type CartItem struct {
	ID          string          `json:"id" bson:"id"`
	ProductID   string          `json:"productId" bson:"product_id"`
	ProductCode string          `json:"productCode" bson:"product_code"`
	Name        string          `json:"name" bson:"name"`
	Price       decimal.Decimal `json:"price" bson:"price"`
	Image       string          `json:"image,omitempty" bson:"image,omitempty"`
	Variant     `bson:",inline"`
	Quantity    int             `json:"quantity" bson:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal" bson:"subtotal"`
}

// Matches reports whether the line merges with an add request for the given
// product code and variant.
func (item CartItem) Matches(productCode string, variant Variant) bool {
	return item.ProductCode == productCode && item.Variant == variant
}

type Cart struct {
	ID         string                        `json:"id,omitempty" gorm:"primaryKey;size:36" bson:"_id"`
	UserID     string                        `json:"userId" gorm:"size:36;uniqueIndex;not null" bson:"user_id"`
	Items      datatypes.JSONSlice[CartItem] `json:"items" bson:"items"`
	TotalItems int                           `json:"totalItems" bson:"total_items"`
	TotalPrice decimal.Decimal               `json:"totalPrice" gorm:"type:decimal(14,2)" bson:"total_price"`
	CreatedAt  time.Time                     `json:"createdAt,omitempty" bson:"created_at"`
	UpdatedAt  time.Time                     `json:"updatedAt,omitempty" bson:"updated_at"`
}

// EmptyCart is the unpersisted view returned to a user who has no cart yet.
func EmptyCart(userID string) Cart {
	return Cart{
		UserID:     userID,
		Items:      datatypes.JSONSlice[CartItem]{},
		TotalPrice: decimal.Zero,
	}
}

// RecomputeTotals returns cart with every line subtotal and both cart totals
// derived from line prices and quantities.
func RecomputeTotals(cart Cart) Cart {
	items := make(datatypes.JSONSlice[CartItem], len(cart.Items))
	totalItems := 0
	totalPrice := decimal.Zero
	for i, item := range cart.Items {
		item.Subtotal = LineSubtotal(item.Price, item.Quantity)
		items[i] = item
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(item.Subtotal)
	}
	cart.Items = items
	cart.TotalItems = totalItems
	cart.TotalPrice = totalPrice
	return cart
}

func LineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// FindItem returns the index of the line with the given id, or -1.
func (cart Cart) FindItem(itemID string) int {
	for i, item := range cart.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}
