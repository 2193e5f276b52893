package repository

import (
	"context"
	"errors"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

type DeliveryGormRepository struct {
	db *gorm.DB
}

func NewDeliveryGormRepository(db *gorm.DB) *DeliveryGormRepository {
	return &DeliveryGormRepository{db: db}
}

func (r *DeliveryGormRepository) Create(ctx context.Context, d model.Delivery) (model.Delivery, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return model.Delivery{}, err
	}
	return d, nil
}

func (r *DeliveryGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Delivery{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Delivery{}, err
	}
	return d, nil
}

// ステータスと日時だけ更新
func (r *DeliveryGormRepository) Update(ctx context.Context, d model.Delivery) error {
	res := r.db.WithContext(ctx).Model(&model.Delivery{}).
		Where("id = ?", d.ID).
		Select("status", "shipped_at", "delivered_at").
		Updates(d)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
