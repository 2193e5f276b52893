package payment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "************0366", MaskCardNumber("4532015112830366"))
	assert.Equal(t, "1234", MaskCardNumber("1234"))
	assert.Equal(t, "", MaskCardNumber(""))
	assert.Equal(t, "*2345", MaskCardNumber("12345"))
}

func TestBuild_EWallet(t *testing.T) {
	req := Build(Selection{
		Type:                  TypeEWallet,
		Fields:                Fields{Wallet: "GRABPAY", GrabPayID: "abc1234", PayPalContact: "ignored", CardNumber: "4532015112830366"},
		ShippingAddressID:     7,
		BillingSameAsShipping: true,
		BillingAddressID:      99,
	})

	assert.Equal(t, TypeEWallet, req.PaymentType)
	assert.Equal(t, int64(7), req.ShippingAddressID)
	assert.Equal(t, int64(7), req.BillingAddressID)

	m, ok := req.Method.(WalletMethod)
	require.True(t, ok)
	require.NotNil(t, m.Type)
	assert.Equal(t, WalletGrabPay, *m.Type)
	assert.Equal(t, "abc1234", m.ID)

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "E_WALLET", got["paymentType"])
	assert.Equal(t, "GRABPAY", got["walletType"])
	assert.Equal(t, "abc1234", got["walletId"])
	assert.NotContains(t, got, "cardNumber")
	assert.NotContains(t, got, "paypalId")
}

func TestBuild_EWalletUnknownSubtype(t *testing.T) {
	req := Build(Selection{
		Type:              TypeEWallet,
		Fields:            Fields{Wallet: "APPLEPAY", GrabPayID: "abc1234"},
		ShippingAddressID: 1,
	})

	m, ok := req.Method.(WalletMethod)
	require.True(t, ok)
	assert.Nil(t, m.Type)
	assert.Equal(t, "", m.ID)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.NotContains(t, got, "walletType")
}

func TestBuild_PayPal(t *testing.T) {
	req := Build(Selection{
		Type:              TypePayPal,
		Fields:            Fields{PayPalContact: "me@example.com", GrabPayID: "x"},
		ShippingAddressID: 3,
		BillingAddressID:  4,
	})

	assert.Equal(t, int64(4), req.BillingAddressID)
	assert.Equal(t, PayPalMethod{ID: "me@example.com"}, req.Method)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"paymentType":"PAYPAL","shippingAddressId":3,"billingAddressId":4,"paypalId":"me@example.com"}`, string(raw))
}

func TestBuild_CardIsMasked(t *testing.T) {
	req := Build(Selection{
		Type:                  TypeDebitCard,
		Fields:                Fields{CardNumber: "4532 0151 1283 0366"},
		ShippingAddressID:     5,
		BillingSameAsShipping: true,
	})

	assert.Equal(t, CardMethod{MaskedNumber: "************0366"}, req.Method)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"paymentType":"DEBIT_CARD","shippingAddressId":5,"billingAddressId":5,"cardNumber":"************0366"}`, string(raw))
}

func TestBuild_UnknownTypeHasNoMethod(t *testing.T) {
	req := Build(Selection{Type: PaymentType("CASH"), ShippingAddressID: 1, BillingSameAsShipping: true})
	assert.Nil(t, req.Method)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"paymentType":"CASH","shippingAddressId":1,"billingAddressId":1}`, string(raw))
}
