package collection

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/collection/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
)

type UseCase interface {
	CreateCollection(ctx context.Context, input *dto.SaveCollectionInput) (*model.Collection, error)
	GetCollection(ctx context.Context, id string) (*model.Collection, error)
	ListCollections(ctx context.Context, filters *dto.CollectionFilters) ([]model.Collection, int, error)
	UpdateCollection(ctx context.Context, input *dto.SaveCollectionInput) (*model.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
}
