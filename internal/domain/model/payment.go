package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

type PaymentType string

const (
	PaymentTypeCreditCard PaymentType = "CREDIT_CARD"
	PaymentTypeDebitCard  PaymentType = "DEBIT_CARD"
	PaymentTypeEWallet    PaymentType = "E_WALLET"
	PaymentTypePayPal     PaymentType = "PAYPAL"
)

// 1注文につき1件
type Payment struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64           `gorm:"not null;uniqueIndex" json:"orderId"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status      PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	PaymentType PaymentType     `gorm:"type:varchar(20);not null" json:"paymentType"`
	//マスク済みカード番号・PayPal ID・ウォレットIDなど
	PaymentNote string    `gorm:"type:varchar(255)" json:"paymentNote"`
	PaidAt      time.Time `gorm:"not null" json:"paidAt"`
}
