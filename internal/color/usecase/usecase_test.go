package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/color"
	"github.com/fekuna/omnipos-admin-service/internal/color/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows      map[string]*model.Color
	created   *model.Color
	updateErr error
}

func (f *fakeRepo) Create(_ context.Context, c *model.Color) error {
	f.created = c
	c.Version = 1
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*model.Color, error) {
	if c, ok := f.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindAll(context.Context, string) ([]model.Color, error) { return nil, nil }

func (f *fakeRepo) Update(_ context.Context, c *model.Color) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	c.Version++
	return nil
}

func (f *fakeRepo) Delete(context.Context, string) error { return nil }

func TestCreateColor_NormalizesHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		err  error
	}{
		{name: "lower case", in: "#ff00aa", want: "#FF00AA"},
		{name: "missing hash", in: "1a2b3c", want: "#1A2B3C"},
		{name: "padded", in: "  #abcdef ", want: "#ABCDEF"},
		{name: "short form", in: "#fff", err: color.ErrHexInvalid},
		{name: "not hex", in: "#GGGGGG", err: color.ErrHexInvalid},
		{name: "empty", in: "", err: color.ErrHexInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			uc := NewColorUseCase(repo, logger.NewNop())

			c, err := uc.CreateColor(context.Background(), &dto.SaveColorInput{Name: " Navy ", HexCode: tt.in})

			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				assert.Nil(t, repo.created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.HexCode)
			assert.Equal(t, "Navy", c.Name)
			assert.Equal(t, 1, c.Version)
			assert.NotEmpty(t, c.ID)
		})
	}
}

func TestCreateColor_NameRequired(t *testing.T) {
	uc := NewColorUseCase(&fakeRepo{}, logger.NewNop())
	_, err := uc.CreateColor(context.Background(), &dto.SaveColorInput{Name: "  ", HexCode: "#000000"})
	assert.True(t, errors.Is(err, color.ErrNameRequired))
}

func TestUpdateColor(t *testing.T) {
	repo := &fakeRepo{rows: map[string]*model.Color{
		"c-1": {BaseModel: model.BaseModel{ID: "c-1"}, Name: "Red", HexCode: "#FF0000", Version: 3},
	}}
	uc := NewColorUseCase(repo, logger.NewNop())

	c, err := uc.UpdateColor(context.Background(), &dto.SaveColorInput{ID: "c-1", Version: 3, Name: "Crimson", HexCode: "#dc143c"})
	require.NoError(t, err)
	assert.Equal(t, "Crimson", c.Name)
	assert.Equal(t, "#DC143C", c.HexCode)
	assert.Equal(t, 4, c.Version)

	_, err = uc.UpdateColor(context.Background(), &dto.SaveColorInput{ID: "c-9", Name: "X", HexCode: "#000000"})
	assert.True(t, errors.Is(err, color.ErrNotFound))

	repo.updateErr = apperr.ErrVersionConflict
	_, err = uc.UpdateColor(context.Background(), &dto.SaveColorInput{ID: "c-1", Version: 1, Name: "X", HexCode: "#000000"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}
