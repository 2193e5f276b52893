package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 割引コード。コードは大文字で保存する。
type Discount struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
	Percentage  decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"percentage"`
	//nilなら期限なし
	ValidFrom *time.Time `json:"validFrom"`
	ValidTo   *time.Time `json:"validTo"`
	Active    bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// UsableAt は有効フラグと期間を見る。
func (d Discount) UsableAt(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidTo != nil && now.After(*d.ValidTo) {
		return false
	}
	return true
}
