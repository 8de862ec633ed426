package dto

const (
	ReferenceManual      = "manual"
	ReferenceOrder       = "order"
	ReferenceOrderCancel = "order_cancel"
)

type AdjustStockInput struct {
	VariantID      string `json:"-"`
	QuantityChange int    `json:"quantity_change" validate:"required"` // non-zero
	Reason         string `json:"reason" validate:"max=255"`
	ReferenceType  string `json:"-"`
	ReferenceID    string `json:"-"`
	UserID         string `json:"-"`
}
