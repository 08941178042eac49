package models

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" gorm:"size:191;uniqueIndex;not null" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Role      string    `json:"role" gorm:"size:16;default:'user'" bson:"role"`
	Phone     string    `json:"phone" bson:"phone"`
	Address   string    `json:"address" bson:"address"`
	City      string    `json:"city" bson:"city"`
	State     string    `json:"state" bson:"state"`
	PinCode   string    `json:"pinCode" bson:"pin_code"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ShippingAddress returns the profile address and whether every field an
// order needs is filled in.
func (u User) ShippingAddress() (ShippingAddress, bool) {
	addr := ShippingAddress{
		Name:    u.Name,
		Phone:   u.Phone,
		Address: u.Address,
		City:    u.City,
		State:   u.State,
		PinCode: u.PinCode,
	}
	for _, field := range []string{addr.Phone, addr.Address, addr.City, addr.State, addr.PinCode} {
		if strings.TrimSpace(field) == "" {
			return addr, false
		}
	}
	return addr, true
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
