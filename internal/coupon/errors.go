package coupon

import "github.com/fekuna/omnipos-admin-service/internal/apperr"

var (
	ErrNotFound          = apperr.NotFound("coupon.not_found")
	ErrCodeRequired      = apperr.Validation("coupon.code_required")
	ErrTypeInvalid       = apperr.Validation("coupon.type_invalid")
	ErrPercentageRange   = apperr.Validation("coupon.percentage_range")
	ErrFixedPositive     = apperr.Validation("coupon.fixed_positive")
	ErrMinAmountNegative = apperr.Validation("coupon.min_amount_negative")
	ErrMaxUsesInvalid    = apperr.Validation("coupon.max_uses_invalid")
	ErrWindowInvalid     = apperr.Validation("coupon.window_invalid")
)
