package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var ProductCategories = []string{"mobiles", "tablets", "tvs", "appliances", "electronics"}

type Product struct {
	ID            string                      `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Code          string                      `json:"productCode" gorm:"size:64;uniqueIndex;not null" bson:"code"`
	Name          string                      `json:"name" bson:"name"`
	Category      string                      `json:"category" gorm:"size:32;index" bson:"category"`
	Description   string                      `json:"description" bson:"description"`
	Price         decimal.Decimal             `json:"price" gorm:"type:decimal(14,2)" bson:"price"`
	OriginalPrice decimal.Decimal             `json:"originalPrice" gorm:"type:decimal(14,2)" bson:"original_price"`
	Discount      int                         `json:"discount" bson:"discount"`
	Stock         int                         `json:"stock" bson:"stock"`
	Images        datatypes.JSONSlice[string] `json:"images" bson:"images"`
	Colors        datatypes.JSONSlice[string] `json:"colors" bson:"colors"`
	Ram           datatypes.JSONSlice[string] `json:"ram" bson:"ram"`
	Storage       datatypes.JSONSlice[string] `json:"storage" bson:"storage"`
	CreatedAt     time.Time                   `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time                   `json:"updatedAt" bson:"updated_at"`
}

// PrimaryImage is the image copied into cart lines.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func ValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}
