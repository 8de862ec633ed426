package product

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/product/dto"
	"github.com/fekuna/omnipos-admin-service/internal/product/matrix"
)

type UseCase interface {
	SaveProduct(ctx context.Context, input *dto.SaveProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	DeleteProduct(ctx context.Context, id string) error

	// Draft transitions, so clients can keep their editor in sync with the
	// rules applied on save.
	PreviewColors(input *dto.PreviewColorsInput) matrix.Draft
	PreviewSizes(input *dto.PreviewSizesInput) matrix.Draft
	PreviewPrimary(input *dto.PreviewPrimaryInput) (matrix.Draft, error)
}
