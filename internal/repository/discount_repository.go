package repository

import (
	"context"
	"time"

	"petstore/internal/domain/model"
)

type DiscountRepository interface {
	//コードは大文字で渡す
	FindByCode(ctx context.Context, code string) (model.Discount, error)
	//有効フラグと期間で絞り込む
	ListActive(ctx context.Context, now time.Time) ([]model.Discount, error)
}
