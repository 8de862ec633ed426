package collection

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/collection/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, collection *model.Collection) error
	FindByID(ctx context.Context, id string) (*model.Collection, error)
	FindAll(ctx context.Context, filters *dto.CollectionFilters) ([]model.Collection, int, error)
	Update(ctx context.Context, collection *model.Collection) error
	Delete(ctx context.Context, id string) error
}
