package dto

type CouponFilters struct {
	SearchQuery string `json:"q"`
	IsActive    *bool  `json:"is_active"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}
