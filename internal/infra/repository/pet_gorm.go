package repository

import (
	"context"
	"errors"
	"strings"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"

	"gorm.io/gorm"
)

type PetGormRepository struct {
	db *gorm.DB
}

// DI
func NewPetGormRepository(db *gorm.DB) *PetGormRepository {
	return &PetGormRepository{db: db}
}

// 検索/カテゴリ/ステータス/ページング付きで返す。
func (r *PetGormRepository) List(ctx context.Context, q repo.PetListQuery) ([]model.Pet, int64, error) {
	var pets []model.Pet
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Pet{})

	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("name ILIKE ?", "%"+s+"%")
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Pet{}, 0, err
	}

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("id desc").Offset(offset).Limit(q.Limit).Find(&pets).Error; err != nil {
		return []model.Pet{}, 0, err
	}

	return pets, total, nil
}

// IDでペットを取得
func (r *PetGormRepository) FindByID(ctx context.Context, id int64) (model.Pet, error) {
	var p model.Pet
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Pet{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Pet{}, err
	}
	return p, nil
}

// まとめて取得。見つからないIDは結果に含まれない
func (r *PetGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Pet, error) {
	if len(ids) == 0 {
		return []model.Pet{}, nil
	}
	var pets []model.Pet
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pets).Error; err != nil {
		return []model.Pet{}, err
	}
	return pets, nil
}

// AVAILABLEの行だけ更新する（条件付きUPDATEで二重販売を防ぐ）
func (r *PetGormRepository) MarkSold(ctx context.Context, petID int64, ownerID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Pet{}).
		Where("id = ? AND status = ?", petID, model.PetStatusAvailable).
		Updates(map[string]interface{}{
			"status":   model.PetStatusSold,
			"owner_id": ownerID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
