package coupon

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, c *model.Coupon) error
	FindByID(ctx context.Context, id string) (*model.Coupon, error)
	FindAll(ctx context.Context, filters *dto.CouponFilters) ([]model.Coupon, int, error)
	Update(ctx context.Context, c *model.Coupon) error
	Delete(ctx context.Context, id string) error
}
