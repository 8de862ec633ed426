package order

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/order/dto"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	// UpdateStatus writes status and payment status guarded by o.Version.
	UpdateStatus(ctx context.Context, o *model.Order) error
	Delete(ctx context.Context, id string) error
}
