package color

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/color/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
)

type UseCase interface {
	CreateColor(ctx context.Context, input *dto.SaveColorInput) (*model.Color, error)
	ListColors(ctx context.Context, search string) ([]model.Color, error)
	UpdateColor(ctx context.Context, input *dto.SaveColorInput) (*model.Color, error)
	// DeleteColor keeps variants that used the color; they lose the link
	// and drop out of the variant editor.
	DeleteColor(ctx context.Context, id string) error
}
