package repository

import (
	"context"
	"errors"

	"petstore/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type PetListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Status   string
}

// ペットの永続化だけを約束。
type PetRepository interface {
	List(ctx context.Context, q PetListQuery) ([]model.Pet, int64, error)
	FindByID(ctx context.Context, id int64) (model.Pet, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Pet, error)

	//AVAILABLEのときだけSOLDにして購入者を記録。更新できたらtrue
	MarkSold(ctx context.Context, petID int64, ownerID int64) (bool, error)
}
