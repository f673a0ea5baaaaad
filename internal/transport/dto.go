package transport

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type UpdateCartRequest struct {
	ProductID uint  `json:"product_id"`
	Quantity  *uint `json:"quantity"`
}

type DeleteCartRequest struct {
	ProductID uint `json:"product_id"`
}

// CartLineView is one cart row denormalized with live product data for
// display.
type CartLineView struct {
	ProductID    uint            `json:"product_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Quantity     uint            `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type CartView struct {
	Products          []CartLineView  `json:"products"`
	OverallTotalPrice decimal.Decimal `json:"overall_total_price"`
}

type CreatePaymentOrderRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type AddProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
	CategoryID  uint            `json:"category_id"`
	ImageURL    string          `json:"image_url"`
}

type ModifyUserRequest struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type GetUserByIDRequest struct {
	UserID uint `json:"user_id"`
}

// ProductView is a catalog product denormalized with its first image URL.
type ProductView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
	CategoryID  uint            `json:"category_id"`
	ImageURL    string          `json:"image_url"`
}

// OrderLineView is one historical order item denormalized with product data.
type OrderLineView struct {
	OrderID      string          `json:"order_id"`
	ProductID    uint            `json:"product_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"`
	Quantity     uint            `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type OrderStats struct {
	Username      string  `json:"username"`
	TotalOrders   int64   `json:"total_orders"`
	TotalSpending float64 `json:"total_spending"`
}

// BusinessReport is one analytics roll-up over successful orders. Revenue
// figures are rounded to 2 decimal places.
type BusinessReport struct {
	Period                string             `json:"period"`
	Date                  string             `json:"date,omitempty"`
	Month                 int                `json:"month,omitempty"`
	Year                  int                `json:"year,omitempty"`
	TotalOrders           int                `json:"totalOrders"`
	TotalRevenue          float64            `json:"totalRevenue"`
	TotalBusiness         float64            `json:"totalBusiness,omitempty"`
	AverageOrderValue     float64            `json:"averageOrderValue,omitempty"`
	CategorySales         map[string]uint    `json:"categorySales"`
	CategoryRevenue       map[string]float64 `json:"categoryRevenue"`
	TotalItemsSold        uint               `json:"totalItemsSold"`
	UniqueCategories      int                `json:"uniqueCategories"`
	TopPerformingCategory string             `json:"topPerformingCategory"`
	TopRevenueCategory    string             `json:"topRevenueCategory"`
	UnprocessedItems      int                `json:"unprocessedItems"`
}
