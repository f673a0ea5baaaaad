package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCustomer:
		return RoleCustomer, true
	}
	return "", false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SessionToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	Token     string    `gorm:"size:1000;not null"  json:"-"`
	ExpiresAt time.Time `gorm:"not null"            json:"expires_at"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string          `gorm:"not null"                    json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock       uint            `json:"stock"`
	CategoryID  uint            `gorm:"index;not null"              json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index;not null"           json:"product_id"`
	ImageURL  string `gorm:"not null"                 json:"image_url"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"                         json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product"       json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product"       json:"product_id"`
	Quantity  uint `gorm:"not null;check:quantity>0"                        json:"quantity"`
}

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusSuccess OrderStatus = "SUCCESS"
	OrderStatusFailed  OrderStatus = "FAILED"
)

// Order is keyed by the identifier the payment gateway assigns, not a locally
// generated one.
type Order struct {
	OrderID     string          `gorm:"primaryKey;size:64"          json:"order_id"`
	UserID      uint            `gorm:"index;not null"              json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"not null"                    json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem snapshots one cart line at the moment its order succeeds, so the
// history stays stable when product prices change later.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID      string          `gorm:"index;size:64;not null"      json:"order_id"`
	ProductID    uint            `gorm:"not null"                    json:"product_id"`
	Quantity     uint            `gorm:"not null"                    json:"quantity"`
	PricePerUnit decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_per_unit"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
}
