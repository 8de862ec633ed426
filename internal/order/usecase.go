package order

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/order/dto"
)

type UseCase interface {
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
