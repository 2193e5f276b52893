package repository

import (
	"context"
	"time"

	"petstore/internal/domain/model"
)

const (
	AuditLogDefaultLimit = 50
	AuditLogMaxLimit     = 200
)

// 管理画面の監査ログ検索条件。Limit 0 は既定件数
type AuditLogFilter struct {
	ActorUserID *int64
	Action      *model.AuditAction
	Resource    *model.AuditResource
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

func (f AuditLogFilter) PageSize() int {
	if f.Limit == 0 {
		return AuditLogDefaultLimit
	}
	return f.Limit
}

type AuditLogRepository interface {
	// 注文・ペットの変更と同じトランザクションで書く
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順。Limit/Offset の範囲チェックは呼び出し側
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
