package color

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, color *model.Color) error
	FindByID(ctx context.Context, id string) (*model.Color, error)
	FindAll(ctx context.Context, search string) ([]model.Color, error)
	Update(ctx context.Context, color *model.Color) error
	Delete(ctx context.Context, id string) error
}
