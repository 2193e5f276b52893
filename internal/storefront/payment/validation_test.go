package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validCardFields() Fields {
	return Fields{
		CardNumber: "4532 0151 1283 0366",
		Expiry:     "12/29",
		CVV:        "123",
		CardHolder: "Jane Doe",
	}
}

func TestIsValidCardNumber(t *testing.T) {
	cases := []struct {
		name string
		num  string
		want bool
	}{
		{"luhn ok", "4532015112830366", true},
		{"luhn ng", "4532015112830367", false},
		{"19 digits ok", "4111111111111111110", luhn("4111111111111111110")},
		{"15 digits", "453201511283036", false},
		{"20 digits", "45320151128303660000", false},
		{"not digits", "4532a15112830366", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidCardNumber(tc.num))
		})
	}
}

func TestIsPaymentInfoValid_Card(t *testing.T) {
	for _, pt := range []PaymentType{TypeCreditCard, TypeDebitCard} {
		f := validCardFields()
		assert.True(t, IsPaymentInfoValid(pt, f), pt)

		bad := f
		bad.CardNumber = "4532 0151 1283 0367"
		assert.False(t, IsPaymentInfoValid(pt, bad), "luhn")

		bad = f
		bad.Expiry = "13/29"
		assert.False(t, IsPaymentInfoValid(pt, bad), "month 13")

		bad = f
		bad.Expiry = "1229"
		assert.False(t, IsPaymentInfoValid(pt, bad), "no slash")

		bad = f
		bad.CVV = "12"
		assert.False(t, IsPaymentInfoValid(pt, bad), "cvv short")

		bad = f
		bad.CVV = "1234"
		assert.True(t, IsPaymentInfoValid(pt, bad), "cvv 4 digits")

		bad = f
		bad.CardHolder = "  J "
		assert.False(t, IsPaymentInfoValid(pt, bad), "holder short")
	}
}

func TestIsPaymentInfoValid_PayPal(t *testing.T) {
	assert.True(t, IsPaymentInfoValid(TypePayPal, Fields{PayPalContact: "a@b.c"}))
	assert.False(t, IsPaymentInfoValid(TypePayPal, Fields{PayPalContact: "  a@b  "}))
	assert.False(t, IsPaymentInfoValid(TypePayPal, Fields{}))
}

func TestIsPaymentInfoValid_EWallet(t *testing.T) {
	assert.True(t, IsPaymentInfoValid(TypeEWallet, Fields{Wallet: "GRABPAY", GrabPayID: "abc1234"}))
	assert.True(t, IsPaymentInfoValid(TypeEWallet, Fields{Wallet: "BOOSTPAY", BoostPayID: "abcd"}))
	assert.True(t, IsPaymentInfoValid(TypeEWallet, Fields{Wallet: "TOUCHNGO", TouchNGoID: "0123"}))

	//IDが3文字以下
	assert.False(t, IsPaymentInfoValid(TypeEWallet, Fields{Wallet: "GRABPAY", GrabPayID: " abc "}))
	//別のウォレット欄だけ入っている
	assert.False(t, IsPaymentInfoValid(TypeEWallet, Fields{Wallet: "GRABPAY", BoostPayID: "abcdef"}))
	//未知の種別
	assert.False(t, IsPaymentInfoValid(TypeEWallet, Fields{Wallet: "grabpay", GrabPayID: "abcdef"}))
}

func TestIsPaymentInfoValid_UnknownTypeIsPermissive(t *testing.T) {
	assert.True(t, IsPaymentInfoValid(PaymentType("BANK_TRANSFER"), Fields{}))
	assert.True(t, IsPaymentInfoValid(PaymentType(""), Fields{}))
}

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4532 0151 1283 0366", FormatCardNumber("4532015112830366"))
	assert.Equal(t, "4532 01", FormatCardNumber("4532-01"))
	assert.Equal(t, "", FormatCardNumber("abc"))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12", FormatExpiry("12"))
	assert.Equal(t, "12/2", FormatExpiry("122"))
	assert.Equal(t, "12/29", FormatExpiry("12/29"))
	assert.Equal(t, "12/29", FormatExpiry("122999"))
}

func TestParseWalletType(t *testing.T) {
	w, ok := ParseWalletType("TOUCHNGO")
	assert.True(t, ok)
	assert.Equal(t, WalletTouchNGo, w)

	w, ok = ParseWalletType("Touchngo")
	assert.False(t, ok)
	assert.Equal(t, WalletType(""), w)
}
