package coupon

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
)

type UseCase interface {
	CreateCoupon(ctx context.Context, input *dto.SaveCouponInput) (*model.Coupon, error)
	GetCoupon(ctx context.Context, id string) (*model.Coupon, error)
	ListCoupons(ctx context.Context, filters *dto.CouponFilters) ([]model.Coupon, int, error)
	UpdateCoupon(ctx context.Context, input *dto.SaveCouponInput) (*model.Coupon, error)
	ToggleCoupon(ctx context.Context, input *dto.ToggleCouponInput) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
}
