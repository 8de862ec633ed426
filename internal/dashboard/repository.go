package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/dashboard/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
)

type Repository interface {
	Totals(ctx context.Context, lowStockThreshold int) (*dto.Totals, error)
	OrdersByStatus(ctx context.Context) ([]dto.StatusCount, error)
	RecentOrders(ctx context.Context, limit int) ([]model.Order, error)
}
