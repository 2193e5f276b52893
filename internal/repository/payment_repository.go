package repository

import (
	"context"

	"petstore/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (model.Payment, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
}

type DeliveryRepository interface {
	Create(ctx context.Context, d model.Delivery) (model.Delivery, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.Delivery, error)
	Update(ctx context.Context, d model.Delivery) error
}
