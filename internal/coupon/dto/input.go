package dto

import "time"

type SaveCouponInput struct {
	ID             string     `json:"-"`
	Version        int        `json:"version"`
	Code           string     `json:"code" validate:"required,max=50"`
	Type           string     `json:"type" validate:"required,oneof=percentage fixed"`
	Value          float64    `json:"value"` // range depends on Type
	MinOrderAmount float64    `json:"min_order_amount" validate:"gte=0"`
	MaxUses        *int       `json:"max_uses" validate:"omitnil,gt=0"`
	StartsAt       *time.Time `json:"starts_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
	IsActive       *bool      `json:"is_active"` // nil keeps the stored value, or true on create
}

type ToggleCouponInput struct {
	ID      string `json:"-"`
	Version int    `json:"version"`
}
