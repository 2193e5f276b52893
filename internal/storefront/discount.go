package storefront

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petstore/internal/storefront/api"
)

// DiscountAPI は割引コード検証の窓口。
type DiscountAPI interface {
	ValidateDiscount(ctx context.Context, code string, total decimal.Decimal) (api.DiscountValidation, error)
}

type DiscountResult = api.DiscountValidation

// AppliedDiscount はカートに適用中の割引（サーバーには保存しない）。
type AppliedDiscount struct {
	Code           string
	Percentage     decimal.Decimal
	DiscountAmount decimal.Decimal
}

// CartState はカートの表示用状態。
// Total は常に明細価格の合計。TotalAfterDiscount は割引適用中のみ非nil。
type CartState struct {
	Items              []api.CartItem
	Total              decimal.Decimal
	Discount           *AppliedDiscount
	TotalAfterDiscount *decimal.Decimal
}

func (s CartState) clone() CartState {
	out := CartState{Total: s.Total}
	out.Items = append([]api.CartItem(nil), s.Items...)
	if s.Discount != nil {
		d := *s.Discount
		out.Discount = &d
	}
	if s.TotalAfterDiscount != nil {
		t := *s.TotalAfterDiscount
		out.TotalAfterDiscount = &t
	}
	return out
}

// AppliedCode は適用中のコード。無ければ空。
func (s CartState) AppliedCode() string {
	if s.Discount == nil {
		return ""
	}
	return s.Discount.Code
}

// itemsTotal は明細価格の合計。価格が無い明細は0として扱う。
func itemsTotal(items []api.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Price != nil {
			total = total.Add(*it.Price)
		}
	}
	return total
}

type DiscountApplier struct {
	api DiscountAPI
	log *zap.Logger
}

func NewDiscountApplier(client DiscountAPI, log *zap.Logger) *DiscountApplier {
	return &DiscountApplier{api: client, log: log}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate はコードを大文字に揃えてサーバーで検証する。
func (d *DiscountApplier) Validate(ctx context.Context, code string, total decimal.Decimal) (DiscountResult, error) {
	code = normalizeCode(code)
	if code == "" {
		return DiscountResult{}, newValidationError("Please enter a discount code.")
	}
	return d.api.ValidateDiscount(ctx, code, total)
}

// Apply は state.Total（明細合計）に対して検証し、既存の割引を置き換える。
// 失敗時は state を変更しない。
func (d *DiscountApplier) Apply(ctx context.Context, state *CartState, code string) (DiscountResult, error) {
	res, err := d.Validate(ctx, code, state.Total)
	if err != nil {
		return DiscountResult{}, err
	}

	state.Discount = &AppliedDiscount{
		Code:           res.Code,
		Percentage:     res.Percentage,
		DiscountAmount: res.DiscountAmount,
	}
	newTotal := res.NewTotal
	state.TotalAfterDiscount = &newTotal
	return res, nil
}

// Remove はローカルだけで割引を外す。
func (d *DiscountApplier) Remove(state *CartState) {
	state.Discount = nil
	state.TotalAfterDiscount = nil
	state.Total = itemsTotal(state.Items)
}

// ReapplyAfterReload は再読込後に直前のコードを黙って再適用する。
// 失敗しても再読込自体は成功扱いで、割引だけ外す。
func (d *DiscountApplier) ReapplyAfterReload(ctx context.Context, state *CartState, previousCode string) bool {
	if normalizeCode(previousCode) == "" {
		return false
	}

	if _, err := d.Apply(ctx, state, previousCode); err != nil {
		d.log.Info("discount dropped after cart reload",
			zap.String("code", normalizeCode(previousCode)),
			zap.String("total", state.Total.String()),
			zap.Error(err),
		)
		d.Remove(state)
		return false
	}
	return true
}
