package dto

type InventoryFilters struct {
	SearchQuery string
	ProductID   string
	LowStock    bool // stock <= Threshold
	Threshold   int  // zero means the configured default
	Page        int
	PageSize    int
}

type MovementFilters struct {
	ProductID     string
	VariantID     string
	ReferenceType string
	Page          int
	PageSize      int
}
