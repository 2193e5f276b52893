package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"accessToken"`
}

type Pet struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Status string          `json:"status"`
}

type PetPage struct {
	Items []Pet `json:"items"`
	Total int64 `json:"total"`
}

// CartItem.Price は追加時点の価格。欠けている場合は nil。
type CartItem struct {
	ID    int64            `json:"id"`
	Pet   Pet              `json:"pet"`
	Price *decimal.Decimal `json:"price"`
}

type Cart struct {
	ID     int64      `json:"id"`
	UserID int64      `json:"userId"`
	Items  []CartItem `json:"items"`
}

type DiscountValidation struct {
	Code           string          `json:"code"`
	Percentage     decimal.Decimal `json:"percentage"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	NewTotal       decimal.Decimal `json:"newTotal"`
}

type Discount struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Percentage  decimal.Decimal `json:"percentage"`
	ValidFrom   *time.Time      `json:"validFrom"`
	ValidTo     *time.Time      `json:"validTo"`
	Active      bool            `json:"active"`
}

// 注文確定時点の割引
type DiscountSnapshot struct {
	Code           string          `json:"code"`
	Percentage     decimal.Decimal `json:"percentage"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

type OrderItem struct {
	ID      int64           `json:"id"`
	PetID   int64           `json:"petId"`
	PetName string          `json:"petName"`
	Price   decimal.Decimal `json:"price"`
}

type Payment struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	PaymentType string          `json:"paymentType"`
	PaymentNote string          `json:"paymentNote"`
	PaidAt      time.Time       `json:"paidAt"`
}

type Delivery struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ShippedAt   *time.Time `json:"shippedAt"`
	DeliveredAt *time.Time `json:"deliveredAt"`
}

type Address struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	Country     string `json:"country"`
	IsDefault   bool   `json:"isDefault"`
}

type Order struct {
	ID              int64             `json:"id"`
	OrderNumber     string            `json:"orderNumber"`
	Status          string            `json:"status"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Discount        *DiscountSnapshot `json:"discount"`
	Items           []OrderItem       `json:"items"`
	Payment         *Payment          `json:"payment"`
	Delivery        *Delivery         `json:"delivery"`
	ShippingAddress *Address          `json:"shippingAddress"`
	BillingAddress  *Address          `json:"billingAddress"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// サーバーのエラーボディ
type ErrorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}
