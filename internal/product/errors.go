package product

import "github.com/fekuna/omnipos-admin-service/internal/apperr"

var (
	ErrNotFound            = apperr.NotFound("product.not_found")
	ErrNameRequired        = apperr.Validation("product.name_required")
	ErrPriceNegative       = apperr.Validation("product.price_negative")
	ErrDiscountInvalid     = apperr.Validation("product.discount_invalid")
	ErrStatusInvalid       = apperr.Validation("product.status_invalid")
	ErrPendingImageMissing = apperr.Validation("product.pending_image_missing")
	ErrUnknownCollection   = apperr.Validation("product.collection_unknown")
	ErrUnknownColor        = apperr.Validation("product.color_unknown")
	ErrSKUTaken            = apperr.Conflict("product.sku_taken")
)
