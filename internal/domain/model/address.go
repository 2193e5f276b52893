package model

import (
	"strings"
	"time"
)

// 配送先・請求先住所
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"userId"`

	//宛名
	FullName string `gorm:"type:varchar(255);not null" json:"fullName"`

	//電話番号
	PhoneNumber string `gorm:"type:varchar(30)" json:"phoneNumber"`

	Street     string `gorm:"type:varchar(255);not null" json:"street"`
	City       string `gorm:"type:varchar(255);not null" json:"city"`
	State      string `gorm:"type:varchar(100)" json:"state"`
	PostalCode string `gorm:"type:varchar(20);not null" json:"postalCode"`
	Country    string `gorm:"type:varchar(100);not null" json:"country"`

	//このユーザーのデフォルト住所か
	IsDefault bool `gorm:"not null;default:false" json:"isDefault"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// OneLine は配送ラベル用の1行表記。空の項目は飛ばす。
func (a Address) OneLine() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
