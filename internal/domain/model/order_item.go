package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。ペット名と価格は注文時点の値を残す。
type OrderItem struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64           `gorm:"not null;index" json:"orderId"`
	PetID           int64           `gorm:"not null;index" json:"petId"`
	PetNameSnapshot string          `gorm:"type:varchar(255);not null" json:"petName"`
	PriceSnapshot   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
}
