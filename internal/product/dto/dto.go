package dto

import "github.com/fekuna/omnipos-admin-service/internal/model"

type ProductFilters struct {
	CollectionID string `json:"collection_id,omitempty"`
	Status       string `json:"status,omitempty"`
	SearchQuery  string `json:"q,omitempty"`       // name, sku, description
	SortBy       string `json:"sort_by,omitempty"` // name, price, stock, created_at
	SortOrder    string `json:"sort_order,omitempty"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
}

// ProductList is the cached shape of one list page.
type ProductList struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}
