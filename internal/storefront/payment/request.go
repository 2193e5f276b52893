package payment

import (
	"encoding/json"
	"strings"
)

// Selection はチェックアウト画面で選ばれた支払い情報。
type Selection struct {
	Type   PaymentType
	Fields Fields

	ShippingAddressID     int64
	BillingSameAsShipping bool
	BillingAddressID      int64
}

// Method は支払い方法ごとの追加項目。
// CardMethod / WalletMethod / PayPalMethod のどれか一つだけを持つ。
type Method interface {
	isMethod()
}

type CardMethod struct {
	MaskedNumber string
}

// Type は未知のウォレット名なら nil。
type WalletMethod struct {
	Type *WalletType
	ID   string
}

type PayPalMethod struct {
	ID string
}

func (CardMethod) isMethod()   {}
func (WalletMethod) isMethod() {}
func (PayPalMethod) isMethod() {}

// Request は POST /stores/order/{id}/pay の本文。
type Request struct {
	PaymentType       PaymentType
	ShippingAddressID int64
	BillingAddressID  int64
	Method            Method
}

// Build はフォーム状態から送信用リクエストを組み立てる。
func Build(sel Selection) Request {
	req := Request{
		PaymentType:       sel.Type,
		ShippingAddressID: sel.ShippingAddressID,
		BillingAddressID:  sel.BillingAddressID,
	}
	if sel.BillingSameAsShipping {
		req.BillingAddressID = sel.ShippingAddressID
	}

	switch sel.Type {
	case TypeEWallet:
		m := WalletMethod{}
		if w, ok := ParseWalletType(sel.Fields.Wallet); ok {
			m.Type = &w
			m.ID = sel.Fields.walletID(w)
		}
		req.Method = m
	case TypePayPal:
		req.Method = PayPalMethod{ID: sel.Fields.PayPalContact}
	case TypeCreditCard, TypeDebitCard:
		req.Method = CardMethod{MaskedNumber: MaskCardNumber(stripSpaces(sel.Fields.CardNumber))}
	}
	return req
}

// MaskCardNumber は末尾4文字以外を * に置き換える。4文字以下はそのまま。
func MaskCardNumber(s string) string {
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

type wireRequest struct {
	PaymentType       PaymentType `json:"paymentType"`
	ShippingAddressID int64       `json:"shippingAddressId"`
	BillingAddressID  int64       `json:"billingAddressId"`
	WalletType        *WalletType `json:"walletType,omitempty"`
	WalletID          *string     `json:"walletId,omitempty"`
	PayPalID          *string     `json:"paypalId,omitempty"`
	CardNumber        *string     `json:"cardNumber,omitempty"`
}

// MarshalJSON は選ばれた方法の項目だけを出力する。
func (r Request) MarshalJSON() ([]byte, error) {
	w := wireRequest{
		PaymentType:       r.PaymentType,
		ShippingAddressID: r.ShippingAddressID,
		BillingAddressID:  r.BillingAddressID,
	}
	switch m := r.Method.(type) {
	case CardMethod:
		w.CardNumber = &m.MaskedNumber
	case WalletMethod:
		w.WalletType = m.Type
		w.WalletID = &m.ID
	case PayPalMethod:
		w.PayPalID = &m.ID
	}
	return json.Marshal(w)
}
