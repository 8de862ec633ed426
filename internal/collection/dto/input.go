package dto

import "github.com/fekuna/omnipos-admin-service/pkg/storage"

type SaveCollectionInput struct {
	ID          string `json:"-"`
	Version     int    `json:"version"`
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description"`
	RemoveCover bool   `json:"remove_cover"`

	Cover *storage.Object `json:"-" validate:"-"`
}
