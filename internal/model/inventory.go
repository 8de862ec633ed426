package model

import "time"

// VariantStock is one row of the inventory screen.
type VariantStock struct {
	VariantID   string    `db:"variant_id" json:"variant_id"`
	ProductID   string    `db:"product_id" json:"product_id"`
	ProductName string    `db:"product_name" json:"product_name"`
	ColorName   *string   `db:"color_name" json:"color_name"`
	Size        string    `db:"size" json:"size"`
	SKU         *string   `db:"sku" json:"sku"`
	Stock       int       `db:"stock" json:"stock"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	VariantID      string    `db:"variant_id" json:"variant_id"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	Reason         string    `db:"reason" json:"reason"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
