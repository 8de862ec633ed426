package order

import "github.com/fekuna/omnipos-admin-service/internal/apperr"

var (
	ErrNotFound             = apperr.NotFound("order.not_found")
	ErrStatusInvalid        = apperr.Validation("order.status_invalid")
	ErrPaymentStatusInvalid = apperr.Validation("order.payment_status_invalid")
	// ErrCancelledFinal guards stock: cancelling restocks the items and
	// nothing takes them back out again.
	ErrCancelledFinal = apperr.Validation("order.cancelled_final")
)
