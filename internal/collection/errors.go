package collection

import "github.com/fekuna/omnipos-admin-service/internal/apperr"

var (
	ErrNotFound     = apperr.NotFound("collection.not_found")
	ErrNameRequired = apperr.Validation("collection.name_required")
)
