package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"
)

type AdminOrderUsecase struct {
	tx  repo.TransactionManager
	now func() time.Time
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, now: time.Now}
}

type AdminUpdateOrderStatusInput struct {
	Status string `json:"status"`
}

// 管理者が進められる遷移（配送の進捗）
var adminOrderTransitions = map[model.OrderStatus]model.OrderStatus{
	model.OrderStatusApproved: model.OrderStatusShipped,
	model.OrderStatusShipped:  model.OrderStatusDelivered,
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			out, err := loadOrderOutput(ctx, r, o)
			if err != nil {
				return err
			}
			outs = append(outs, out)
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// ステータス更新。APPROVED→SHIPPED→DELIVERED の順にだけ進める。配送情報も更新
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	switch newStatus {
	case model.OrderStatusShipped, model.OrderStatusDelivered:
		// OK
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}
		if adminOrderTransitions[o.Status] != newStatus {
			return NewHTTPError(http.StatusConflict, "cannot change order from "+string(o.Status)+" to "+string(newStatus))
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := u.now()
		d, err := r.Deliveries().FindByOrderID(ctx, orderID)
		if err != nil && err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err == nil {
			switch newStatus {
			case model.OrderStatusShipped:
				d.Status = model.DeliveryStatusShipped
				d.ShippedAt = &now
			case model.OrderStatusDelivered:
				d.Status = model.DeliveryStatusDelivered
				d.DeliveredAt = &now
			}
			if err := r.Deliveries().Update(ctx, d); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		return writeAudit(ctx, r, actorAdminUserID, model.AuditActionUpdateOrderStatus, model.OrderResource(orderID),
			map[string]any{"status": o.Status},
			map[string]any{"status": newStatus}, now)
	})
}

// 期間パラメータ。handlerでtime.Parseしてfilterに入れる
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// 監査ログ一覧（新しい順）
func (u *AdminOrderUsecase) AuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Limit < 0 || f.Limit > repo.AuditLogMaxLimit {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Offset < 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}
	if f.Action != nil && !f.Action.Valid() {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid action")
	}

	var logs []model.AuditLog
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		got, err := r.AuditLogs().List(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		logs = got
		return nil
	})
	if err != nil {
		return []model.AuditLog{}, err
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
