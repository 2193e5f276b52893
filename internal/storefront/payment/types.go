package payment

// 支払い方法
type PaymentType string

const (
	TypeCreditCard PaymentType = "CREDIT_CARD"
	TypeDebitCard  PaymentType = "DEBIT_CARD"
	TypeEWallet    PaymentType = "E_WALLET"
	TypePayPal     PaymentType = "PAYPAL"
)

// IsCard はクレジット/デビットのどちらかを判定する。
func (t PaymentType) IsCard() bool {
	return t == TypeCreditCard || t == TypeDebitCard
}

// 電子ウォレットの種類
type WalletType string

const (
	WalletGrabPay  WalletType = "GRABPAY"
	WalletBoostPay WalletType = "BOOSTPAY"
	WalletTouchNGo WalletType = "TOUCHNGO"
)

var walletTypes = []WalletType{WalletGrabPay, WalletBoostPay, WalletTouchNGo}

// ParseWalletType は完全一致で解決する。一致しなければ ("", false)。
func ParseWalletType(s string) (WalletType, bool) {
	for _, w := range walletTypes {
		if string(w) == s {
			return w, true
		}
	}
	return "", false
}

// Fields はフォームの生の入力値。
type Fields struct {
	CardNumber string
	Expiry     string
	CVV        string
	CardHolder string

	PayPalContact string

	// 選択中のウォレット種別（文字列のまま保持）
	Wallet     string
	GrabPayID  string
	BoostPayID string
	TouchNGoID string
}

// walletID は種別に対応するID欄を返す。
func (f Fields) walletID(w WalletType) string {
	switch w {
	case WalletGrabPay:
		return f.GrabPayID
	case WalletBoostPay:
		return f.BoostPayID
	case WalletTouchNGo:
		return f.TouchNGoID
	}
	return ""
}
