package inventory

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
)

type UseCase interface {
	ListStock(ctx context.Context, filters *dto.InventoryFilters) ([]model.VariantStock, int, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
