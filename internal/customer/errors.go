package customer

import "github.com/fekuna/omnipos-admin-service/internal/apperr"

var (
	ErrNotFound     = apperr.NotFound("customer.not_found")
	ErrNameRequired = apperr.Validation("customer.name_required")
	ErrEmailInvalid = apperr.Validation("customer.email_invalid")
)
