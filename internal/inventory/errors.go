package inventory

import "github.com/fekuna/omnipos-admin-service/internal/apperr"

var (
	ErrVariantNotFound = apperr.NotFound("inventory.variant_not_found")
	ErrInsufficient    = apperr.Validation("inventory.insufficient")
	ErrZeroChange      = apperr.Validation("inventory.zero_change")
	ErrBusy            = apperr.Unavailable("inventory.busy")
	// ErrAlreadyApplied reports a replayed reference, e.g. an order event
	// delivered twice.
	ErrAlreadyApplied = apperr.Conflict("inventory.already_applied")
)
