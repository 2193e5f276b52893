package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string          `gorm:"type:varchar(40);not null;uniqueIndex" json:"orderNumber"`
	UserID      int64           `gorm:"not null;index" json:"userId"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	//割引後の支払額
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`

	//注文時点の割引（無ければ空）
	DiscountCode       string           `gorm:"type:varchar(50)" json:"-"`
	DiscountPercentage *decimal.Decimal `gorm:"type:numeric(5,2)" json:"-"`
	DiscountAmount     *decimal.Decimal `gorm:"type:numeric(12,2)" json:"-"`

	//支払い時に決まる
	ShippingAddressID *int64 `json:"shippingAddressId"`
	BillingAddressID  *int64 `json:"billingAddressId"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (o Order) HasDiscount() bool {
	return o.DiscountCode != "" && o.DiscountPercentage != nil
}
