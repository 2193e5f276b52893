package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"
)

const msgInvalidDiscount = "Invalid or expired discount code"

var hundred = decimal.NewFromInt(100)

type DiscountUsecase struct {
	discounts repo.DiscountRepository
	now       func() time.Time
}

func NewDiscountUsecase(discounts repo.DiscountRepository) *DiscountUsecase {
	return &DiscountUsecase{discounts: discounts, now: time.Now}
}

type DiscountValidationOutput struct {
	Code           string          `json:"code"`
	Percentage     decimal.Decimal `json:"percentage"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	NewTotal       decimal.Decimal `json:"newTotal"`
}

// normalizeDiscountCode はコードを前後空白なしの大文字にする。
func normalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// discountAmountFor は total × pct / 100 を小数2桁に丸める。
func discountAmountFor(d model.Discount, total decimal.Decimal) decimal.Decimal {
	return total.Mul(d.Percentage).Div(hundred).Round(2)
}

// findUsable はコードを引き、有効期間と有効フラグを確認する。
func findUsable(ctx context.Context, discounts repo.DiscountRepository, code string, now time.Time) (model.Discount, error) {
	d, err := discounts.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return model.Discount{}, NewHTTPError(http.StatusNotFound, "discount not found")
	}
	if err != nil {
		return model.Discount{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !d.UsableAt(now) {
		return model.Discount{}, NewHTTPError(http.StatusBadRequest, msgInvalidDiscount)
	}
	return d, nil
}

// Validate は割引コードを検証し、totalに対する割引額を返す。サーバーには何も保存しない。
func (u *DiscountUsecase) Validate(ctx context.Context, code string, totalRaw string) (DiscountValidationOutput, error) {
	code = normalizeDiscountCode(code)
	if code == "" {
		return DiscountValidationOutput{}, NewHTTPError(http.StatusBadRequest, "code is required")
	}
	total, err := decimal.NewFromString(strings.TrimSpace(totalRaw))
	if err != nil || total.IsNegative() {
		return DiscountValidationOutput{}, NewHTTPError(http.StatusBadRequest, "invalid total")
	}

	d, err := findUsable(ctx, u.discounts, code, u.now())
	if err != nil {
		return DiscountValidationOutput{}, err
	}

	amount := discountAmountFor(d, total)
	return DiscountValidationOutput{
		Code:           d.Code,
		Percentage:     d.Percentage,
		DiscountAmount: amount,
		NewTotal:       total.Sub(amount),
	}, nil
}

// ListActive は今使える割引の一覧。
func (u *DiscountUsecase) ListActive(ctx context.Context) ([]model.Discount, error) {
	list, err := u.discounts.ListActive(ctx, u.now())
	if err != nil {
		return []model.Discount{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}
