package dto

type CollectionFilters struct {
	SearchQuery string
	Page        int
	PageSize    int
}
