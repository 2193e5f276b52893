package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PetStatus string

const (
	PetStatusAvailable PetStatus = "AVAILABLE"
	PetStatusPending   PetStatus = "PENDING"
	PetStatusSold      PetStatus = "SOLD"
)

// 販売するペット。1匹につき1件で、在庫数は持たない。
type Pet struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Status      PetStatus       `gorm:"type:varchar(20);not null;index" json:"status"`
	//購入したユーザー。売れるまではnil
	OwnerID   *int64         `gorm:"index" json:"ownerId"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p Pet) IsAvailable() bool {
	return p.Status == PetStatusAvailable
}
