package color

import "github.com/fekuna/omnipos-admin-service/internal/apperr"

var (
	ErrNotFound     = apperr.NotFound("color.not_found")
	ErrNameRequired = apperr.Validation("color.name_required")
	ErrHexInvalid   = apperr.Validation("color.hex_invalid")
)
