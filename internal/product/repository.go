package product

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/product/dto"
)

type Repository interface {
	// Create and Update write the product and its whole variant set in
	// one transaction.
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Delete(ctx context.Context, id string) error

	// TakenSKUs reports which of skus already belong to variants of other
	// products.
	TakenSKUs(ctx context.Context, skus []string, excludeProductID string) (map[string]bool, error)
}
