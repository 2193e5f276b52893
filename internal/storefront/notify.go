package storefront

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// 通知の表示時間
const DefaultNotifyDuration = 3 * time.Second

// Notifier はユーザー向けの一時的な通知（スナックバー相当）。
type Notifier interface {
	Success(msg string, d time.Duration)
	Error(msg string, d time.Duration)
}

// Navigator は画面遷移先を受け取る。
type Navigator interface {
	Navigate(path string)
}

// ConfirmDialog は二段階確認の文言。
type ConfirmDialog struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
}

var cancelOrderDialog = ConfirmDialog{
	Title:       "Cancel Order",
	Message:     "Are you sure you want to cancel this order?",
	ConfirmText: "Cancel Order",
	CancelText:  "Keep Order",
}

// Prompter はユーザーへの問い合わせ。
// Secret の ok=false は入力を取りやめたことを表す。
type Prompter interface {
	Confirm(ctx context.Context, d ConfirmDialog) (bool, error)
	Secret(ctx context.Context, label string) (value string, ok bool, err error)
}

// LogNotifier は通知をzapに流す。
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(msg string, d time.Duration) {
	n.log.Info(msg, zap.String("kind", "success"), zap.Duration("duration", d))
}

func (n *LogNotifier) Error(msg string, d time.Duration) {
	n.log.Warn(msg, zap.String("kind", "error"), zap.Duration("duration", d))
}
