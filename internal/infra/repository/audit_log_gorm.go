package repository

import (
	"context"
	"time"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(
			auditByActor(f.ActorUserID),
			auditByAction(f.Action),
			auditByResource(f.Resource),
			auditBetween(f.From, f.To),
		).
		Order("created_at DESC, id DESC").
		Limit(f.PageSize()).
		Offset(f.Offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func auditByActor(id *int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == nil {
			return db
		}
		return db.Where("actor_user_id = ?", *id)
	}
}

func auditByAction(a *model.AuditAction) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if a == nil {
			return db
		}
		return db.Where("action = ?", *a)
	}
}

// 注文ID・ペットIDで絞る（idx_audit_resource を使う）
func auditByResource(res *model.AuditResource) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if res == nil {
			return db
		}
		return db.Where("resource_type = ? AND resource_id = ?", res.Type, res.ID)
	}
}

func auditBetween(from, to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where("created_at <= ?", *to)
		}
		return db
	}
}
