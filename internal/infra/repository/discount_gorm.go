package repository

import (
	"context"
	"errors"
	"time"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"

	"gorm.io/gorm"
)

type DiscountGormRepository struct {
	db *gorm.DB
}

func NewDiscountGormRepository(db *gorm.DB) *DiscountGormRepository {
	return &DiscountGormRepository{db: db}
}

func (r *DiscountGormRepository) FindByCode(ctx context.Context, code string) (model.Discount, error) {
	var d model.Discount
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Discount{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Discount{}, err
	}
	return d, nil
}

// 期間の端がNULLなら無制限
func (r *DiscountGormRepository) ListActive(ctx context.Context, now time.Time) ([]model.Discount, error) {
	var list []model.Discount
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("valid_from IS NULL OR valid_from <= ?", now).
		Where("valid_to IS NULL OR valid_to >= ?", now).
		Order("percentage desc, id asc").
		Find(&list).Error
	if err != nil {
		return []model.Discount{}, err
	}
	return list, nil
}
