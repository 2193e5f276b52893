package payment

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	cardDigitsRe = regexp.MustCompile(`^\d{16,19}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

// IsPaymentInfoValid は送信してよい入力かを判定する。
// 未知の支払い方法は true を返す。
func IsPaymentInfoValid(t PaymentType, f Fields) bool {
	switch t {
	case TypeCreditCard, TypeDebitCard:
		return isCardValid(f)
	case TypePayPal:
		return len([]rune(strings.TrimSpace(f.PayPalContact))) >= 5
	case TypeEWallet:
		w, ok := ParseWalletType(f.Wallet)
		if !ok {
			return false
		}
		return len([]rune(strings.TrimSpace(f.walletID(w)))) > 3
	default:
		return true
	}
}

func isCardValid(f Fields) bool {
	if !IsValidCardNumber(stripSpaces(f.CardNumber)) {
		return false
	}
	if !expiryRe.MatchString(f.Expiry) {
		return false
	}
	if !cvvRe.MatchString(f.CVV) {
		return false
	}
	return len([]rune(strings.TrimSpace(f.CardHolder))) >= 2
}

// IsValidCardNumber は桁数(16〜19)とLuhnチェックを行う。
func IsValidCardNumber(num string) bool {
	if !cardDigitsRe.MatchString(num) {
		return false
	}
	return luhn(num)
}

func luhn(num string) bool {
	sum := 0
	double := false
	for i := len(num) - 1; i >= 0; i-- {
		d := int(num[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// FormatCardNumber は数字だけ残して4桁ごとに空白を入れる。
func FormatCardNumber(raw string) string {
	digits := onlyDigits(raw)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry は MM/YY 形式に整える（最大4桁）。
func FormatExpiry(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) > 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
