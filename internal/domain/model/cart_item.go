package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細
// 追加時点の価格を保存。ペットは1匹なので数量は持たない。
type CartItem struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID        int64            `gorm:"not null;index;uniqueIndex:idx_cart_pet" json:"cartId"`
	PetID         int64            `gorm:"not null;index;uniqueIndex:idx_cart_pet" json:"petId"`
	PriceSnapshot *decimal.Decimal `gorm:"type:numeric(12,2);column:price_snapshot" json:"price"`
	CreatedAt     time.Time        `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time        `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
