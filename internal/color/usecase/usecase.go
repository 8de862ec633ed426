package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/color"
	"github.com/fekuna/omnipos-admin-service/internal/color/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/validate"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/google/uuid"
)

var colorMessages = validate.Messages{
	"name":     color.ErrNameRequired,
	"hex_code": color.ErrHexInvalid,
}

type colorUseCase struct {
	repo   color.Repository
	logger logger.ZapLogger
}

func NewColorUseCase(repo color.Repository, log logger.ZapLogger) color.UseCase {
	return &colorUseCase{
		repo:   repo,
		logger: log,
	}
}

// normalize trims the name and upper-cases the hex code, adding a missing '#'.
func normalize(input *dto.SaveColorInput) (name, hex string, err error) {
	in := *input
	in.Name = strings.TrimSpace(in.Name)
	in.HexCode = strings.ToUpper(strings.TrimSpace(in.HexCode))
	if in.HexCode != "" && !strings.HasPrefix(in.HexCode, "#") {
		in.HexCode = "#" + in.HexCode
	}
	if err := validate.Struct(&in, colorMessages); err != nil {
		return "", "", err
	}
	return in.Name, in.HexCode, nil
}

func (uc *colorUseCase) CreateColor(ctx context.Context, input *dto.SaveColorInput) (*model.Color, error) {
	name, hex, err := normalize(input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &model.Color{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
		HexCode:   hex,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *colorUseCase) ListColors(ctx context.Context, search string) ([]model.Color, error) {
	return uc.repo.FindAll(ctx, strings.TrimSpace(search))
}

func (uc *colorUseCase) UpdateColor(ctx context.Context, input *dto.SaveColorInput) (*model.Color, error) {
	name, hex, err := normalize(input)
	if err != nil {
		return nil, err
	}

	c, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, color.ErrNotFound
	}

	c.Name = name
	c.HexCode = hex
	c.Version = input.Version
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *colorUseCase) DeleteColor(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
