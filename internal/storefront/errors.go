package storefront

import (
	"errors"
	"fmt"

	"petstore/internal/storefront/api"
)

var (
	// ログインしていない
	ErrNotAuthenticated = errors.New("not authenticated")
	// 支払い処理ステップがユーザーに閉じられた
	ErrPaymentDismissed = errors.New("payment dismissed")
	// 支払い送信中の二重実行
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// ValidationError はリモート呼び出し前に弾く入力エラー。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// InvalidStateError は注文状態が操作に合わないことを表す。
type InvalidStateError struct {
	Status string
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: order status is %q", e.Op, e.Status)
}

// UserMessage は画面に出すメッセージを決める。
// 入力エラーはそのまま、サーバーのメッセージがあればそれを優先し、無ければ fallback。
func UserMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if ae, ok := api.AsError(err); ok && ae.Kind != api.KindTransient && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
