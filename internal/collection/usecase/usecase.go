package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/collection"
	"github.com/fekuna/omnipos-admin-service/internal/collection/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/validate"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/fekuna/omnipos-admin-service/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const coverFolder = "collections"

type collectionUseCase struct {
	repo    collection.Repository
	storage storage.Uploader
	logger  logger.ZapLogger
}

func NewCollectionUseCase(repo collection.Repository, uploader storage.Uploader, log logger.ZapLogger) collection.UseCase {
	return &collectionUseCase{
		repo:    repo,
		storage: uploader,
		logger:  log,
	}
}

func (uc *collectionUseCase) CreateCollection(ctx context.Context, input *dto.SaveCollectionInput) (*model.Collection, error) {
	name, err := validName(input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &model.Collection{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:        name,
		Description: optional(input.Description),
	}

	cover, err := uc.uploadCover(ctx, input.Cover)
	if err != nil {
		return nil, err
	}
	c.ImageURL = cover

	if err := uc.repo.Create(ctx, c); err != nil {
		uc.removeImage(cover)
		return nil, err
	}
	return c, nil
}

func (uc *collectionUseCase) GetCollection(ctx context.Context, id string) (*model.Collection, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, collection.ErrNotFound
	}
	return c, nil
}

func (uc *collectionUseCase) ListCollections(ctx context.Context, filters *dto.CollectionFilters) ([]model.Collection, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *collectionUseCase) UpdateCollection(ctx context.Context, input *dto.SaveCollectionInput) (*model.Collection, error) {
	name, err := validName(input)
	if err != nil {
		return nil, err
	}

	c, err := uc.GetCollection(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if c.Version != input.Version {
		return nil, apperr.ErrVersionConflict
	}

	previous := c.ImageURL
	c.Name = name
	c.Description = optional(input.Description)
	c.UpdatedAt = time.Now()

	cover, err := uc.uploadCover(ctx, input.Cover)
	if err != nil {
		return nil, err
	}
	switch {
	case cover != nil:
		c.ImageURL = cover
	case input.RemoveCover:
		c.ImageURL = nil
	}

	if err := uc.repo.Update(ctx, c); err != nil {
		uc.removeImage(cover)
		return nil, err
	}

	if previous != nil && (c.ImageURL == nil || *c.ImageURL != *previous) {
		go uc.removeImage(previous)
	}
	return c, nil
}

func (uc *collectionUseCase) DeleteCollection(ctx context.Context, id string) error {
	c, err := uc.GetCollection(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	go uc.removeImage(c.ImageURL)
	return nil
}

func (uc *collectionUseCase) uploadCover(ctx context.Context, obj *storage.Object) (*string, error) {
	if obj == nil {
		return nil, nil
	}
	o := *obj
	o.Folder = coverFolder
	url, err := uc.storage.Upload(ctx, o)
	if err != nil {
		return nil, apperr.Upload(err)
	}
	return &url, nil
}

func (uc *collectionUseCase) removeImage(url *string) {
	if url == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := uc.storage.Remove(ctx, *url); err != nil {
		uc.logger.Warn("failed to remove collection cover", zap.String("url", *url), zap.Error(err))
	}
}

func validName(input *dto.SaveCollectionInput) (string, error) {
	in := *input
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(&in, validate.Messages{"name": collection.ErrNameRequired}); err != nil {
		return "", err
	}
	return in.Name, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
