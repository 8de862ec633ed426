package dto

import (
	"github.com/fekuna/omnipos-admin-service/internal/product/matrix"
	"github.com/fekuna/omnipos-admin-service/pkg/storage"
)

// SaveProductInput creates a product when ID is empty and updates it
// otherwise. Version must match the stored row on update.
type SaveProductInput struct {
	ID            string       `json:"id"`
	Version       int          `json:"version"`
	Name          string       `json:"name" validate:"required,max=255"`
	SKU           string       `json:"sku" validate:"max=64"`
	Description   string       `json:"description"`
	Fabrics       string       `json:"fabrics"`
	Price         float64      `json:"price" validate:"gte=0"`
	DiscountPrice *float64     `json:"discount_price" validate:"omitnil,gte=0"`
	Status        string       `json:"status" validate:"omitempty,oneof=active inactive"`
	CollectionID  string       `json:"collection_id"`
	Draft         matrix.Draft `json:"draft"`

	// Uploads holds the files behind Variant.PendingImages, keyed by ref.
	Uploads map[string]storage.Object `json:"-" validate:"-"`
}

type PreviewColorsInput struct {
	Draft  matrix.Draft      `json:"draft"`
	Colors []matrix.ColorRef `json:"colors"`
}

type PreviewSizesInput struct {
	Draft matrix.Draft `json:"draft"`
	Sizes []string     `json:"sizes"`
}

type PreviewPrimaryInput struct {
	Draft   matrix.Draft `json:"draft"`
	ColorID string       `json:"color_id"`
}
