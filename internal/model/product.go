package model

import "github.com/lib/pq"

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

type Product struct {
	BaseModel
	Name          string           `db:"name" json:"name"`
	SKU           *string          `db:"sku" json:"sku"`
	Description   *string          `db:"description" json:"description"`
	Fabrics       *string          `db:"fabrics" json:"fabrics"`
	Price         float64          `db:"price" json:"price"`
	DiscountPrice *float64         `db:"discount_price" json:"discount_price"`
	Status        string           `db:"status" json:"status"`
	Stock         int              `db:"stock" json:"stock"` // sum of variant stock
	CollectionID  *string          `db:"collection_id" json:"collection_id"`
	Version       int              `db:"version" json:"version"`
	Thumbnail     *string          `db:"thumbnail" json:"thumbnail,omitempty"` // list queries only
	Variants      []ProductVariant `db:"-" json:"variants,omitempty"`
}

type ProductVariant struct {
	BaseModel
	ProductID string         `db:"product_id" json:"product_id"`
	ColorID   *string        `db:"color_id" json:"color_id"` // NULL once the color is deleted
	ColorName *string        `db:"color_name" json:"color_name,omitempty"`
	ColorHex  *string        `db:"color_hex" json:"color_hex,omitempty"`
	Size      string         `db:"size" json:"size"`
	SKU       *string        `db:"sku" json:"sku"`
	Price     *float64       `db:"price" json:"price"` // nil falls back to the product price
	Stock     int            `db:"stock" json:"stock"`
	Images    pq.StringArray `db:"images" json:"images"`
	IsPrimary bool           `db:"is_primary" json:"is_primary"`
	Position  int            `db:"position" json:"position"`
}

// EffectivePrice is the price a customer pays for this variant before discounts.
func (v ProductVariant) EffectivePrice(p *Product) float64 {
	if v.Price != nil {
		return *v.Price
	}
	return p.Price
}
