package inventory

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.VariantStock, int, error)
	GetVariantStock(ctx context.Context, variantID string) (*model.VariantStock, error)

	// AdjustStockWithMovement applies m.QuantityChange to the variant, refreshes
	// the product aggregate and records m, all in one transaction. It fills
	// m.ProductID, m.QuantityBefore and m.QuantityAfter.
	AdjustStockWithMovement(ctx context.Context, m *model.StockMovement) error

	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
