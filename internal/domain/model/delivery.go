package model

import "time"

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "PENDING"
	DeliveryStatusShipped   DeliveryStatus = "SHIPPED"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
)

// 配送情報。支払い時に配送先住所から作る。
type Delivery struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64          `gorm:"not null;uniqueIndex" json:"orderId"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Phone       string         `gorm:"type:varchar(30)" json:"phone"`
	Address     string         `gorm:"type:text;not null" json:"address"`
	Status      DeliveryStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	ShippedAt   *time.Time     `json:"shippedAt"`
	DeliveredAt *time.Time     `json:"deliveredAt"`
}
