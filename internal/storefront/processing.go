package storefront

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"petstore/internal/storefront/payment"
)

type Outcome int

const (
	Dismissed Outcome = iota
	Confirmed
)

func (o Outcome) String() string {
	if o == Confirmed {
		return "confirmed"
	}
	return "dismissed"
}

// ProcessingResult は支払い処理ステップの結果。
// Confirmation はカード以外で入力された確認用パスワード。
type ProcessingResult struct {
	Outcome      Outcome
	Confirmation string
}

// PaymentStep は支払い前にユーザーへ見せる処理ステップ。
type PaymentStep interface {
	Run(ctx context.Context, t payment.PaymentType, wallet string) (ProcessingResult, error)
}

const (
	DefaultTicks        = 15
	DefaultTickInterval = time.Second
	DefaultSettleDelay  = 500 * time.Millisecond

	minConfirmationLen = 4
)

// Simulator は擬似的な支払い処理。
// カードはすぐ進捗を開始し、それ以外はパスワード入力のあとで開始する。
type Simulator struct {
	Prompter     Prompter
	Ticks        int
	TickInterval time.Duration
	SettleDelay  time.Duration
	OnProgress   func(percent float64)
	Log          *zap.Logger
}

func NewSimulator(p Prompter, log *zap.Logger) *Simulator {
	return &Simulator{
		Prompter:     p,
		Ticks:        DefaultTicks,
		TickInterval: DefaultTickInterval,
		SettleDelay:  DefaultSettleDelay,
		Log:          log,
	}
}

func (s *Simulator) Run(ctx context.Context, t payment.PaymentType, wallet string) (ProcessingResult, error) {
	var confirmation string

	if !t.IsCard() {
		v, ok, err := s.askPassword(ctx, t, wallet)
		if err != nil {
			return ProcessingResult{}, err
		}
		if !ok {
			return s.dismissed("password step")
		}
		confirmation = v
	}

	if !s.progress(ctx) {
		return s.dismissed("progress")
	}
	return ProcessingResult{Outcome: Confirmed, Confirmation: confirmation}, nil
}

func (s *Simulator) dismissed(at string) (ProcessingResult, error) {
	if s.Log != nil {
		s.Log.Info("payment processing dismissed", zap.String("at", at))
	}
	return ProcessingResult{Outcome: Dismissed}, nil
}

// askPassword は4文字以上が入るまで聞き直す。
func (s *Simulator) askPassword(ctx context.Context, t payment.PaymentType, wallet string) (string, bool, error) {
	label := "Enter your PayPal password"
	if t == payment.TypeEWallet {
		label = fmt.Sprintf("Enter your %s password", wallet)
	}

	for {
		if ctx.Err() != nil {
			return "", false, nil
		}
		v, ok, err := s.Prompter.Secret(ctx, label)
		if err != nil {
			if ctx.Err() != nil {
				return "", false, nil
			}
			return "", false, err
		}
		if !ok {
			return "", false, nil
		}
		if utf8.RuneCountInString(v) >= minConfirmationLen {
			return v, true, nil
		}
	}
}

// progress はTicks回で100%まで進め、少し待って完了とする。
// ctxが終わったら false。タイマーはどの経路でも止める。
func (s *Simulator) progress(ctx context.Context) bool {
	ticks := s.Ticks
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	interval := s.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.report(0)
	for i := 1; i <= ticks; {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			s.report(float64(i) * 100 / float64(ticks))
			i++
		}
	}

	settle := time.NewTimer(s.SettleDelay)
	defer settle.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-settle.C:
		return true
	}
}

func (s *Simulator) report(p float64) {
	if s.OnProgress != nil {
		s.OnProgress(p)
	}
}
