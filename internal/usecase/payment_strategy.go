package usecase

import (
	"net/http"
	"strings"

	"petstore/internal/domain/model"
)

var supportedWallets = map[string]struct{}{
	"GRABPAY":  {},
	"BOOSTPAY": {},
	"TOUCHNGO": {},
}

// PayOrderInput は POST /stores/order/:orderId/pay の本文。
type PayOrderInput struct {
	PaymentType       string `json:"paymentType" validate:"required,oneof=CREDIT_CARD DEBIT_CARD E_WALLET PAYPAL"`
	ShippingAddressID int64  `json:"shippingAddressId" validate:"required,gt=0"`
	BillingAddressID  int64  `json:"billingAddressId" validate:"gte=0"`

	CardNumber *string `json:"cardNumber,omitempty" validate:"omitempty,max=32"`
	PayPalID   *string `json:"paypalId,omitempty" validate:"omitempty,max=255"`
	WalletType *string `json:"walletType,omitempty" validate:"omitempty,max=20"`
	WalletID   *string `json:"walletId,omitempty" validate:"omitempty,max=255"`
}

// PaymentStrategy は支払い方法ごとの入力チェックと備考の作成。
type PaymentStrategy interface {
	Note(in PayOrderInput) (string, error)
}

// PaymentStrategyFor は支払い種別に合う戦略を返す。
func PaymentStrategyFor(t model.PaymentType) (PaymentStrategy, error) {
	switch t {
	case model.PaymentTypeCreditCard, model.PaymentTypeDebitCard:
		return cardStrategy{}, nil
	case model.PaymentTypePayPal:
		return paypalStrategy{}, nil
	case model.PaymentTypeEWallet:
		return walletStrategy{}, nil
	}
	return nil, NewHTTPError(http.StatusBadRequest, "Unsupported payment type")
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

type cardStrategy struct{}

// 備考はマスク済みの番号。すでにマスク済みでも結果は同じ。
func (cardStrategy) Note(in PayOrderInput) (string, error) {
	num := strings.ReplaceAll(trimmed(in.CardNumber), " ", "")
	if num == "" {
		return "", NewHTTPError(http.StatusBadRequest, "Card number is required")
	}
	return maskCardNumber(num), nil
}

func maskCardNumber(s string) string {
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

type paypalStrategy struct{}

func (paypalStrategy) Note(in PayOrderInput) (string, error) {
	id := trimmed(in.PayPalID)
	if id == "" {
		return "", NewHTTPError(http.StatusBadRequest, "PayPal ID is required")
	}
	return "PayPal ID: " + id, nil
}

type walletStrategy struct{}

func (walletStrategy) Note(in PayOrderInput) (string, error) {
	wt := strings.ToUpper(trimmed(in.WalletType))
	if wt == "" {
		return "", NewHTTPError(http.StatusBadRequest, "E-Wallet type is required")
	}
	if _, ok := supportedWallets[wt]; !ok {
		return "", NewHTTPError(http.StatusBadRequest, "Unsupported e-wallet type")
	}
	id := trimmed(in.WalletID)
	if id == "" {
		return "", NewHTTPError(http.StatusBadRequest, "E-Wallet ID is required")
	}
	return wt + " - " + id, nil
}
