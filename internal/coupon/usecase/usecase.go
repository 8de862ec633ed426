package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/coupon"
	"github.com/fekuna/omnipos-admin-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/validate"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type couponUseCase struct {
	repo   coupon.Repository
	logger logger.ZapLogger
}

func NewCouponUseCase(repo coupon.Repository, log logger.ZapLogger) coupon.UseCase {
	return &couponUseCase{
		repo:   repo,
		logger: log,
	}
}

var couponMessages = validate.Messages{
	"code":             coupon.ErrCodeRequired,
	"type":             coupon.ErrTypeInvalid,
	"min_order_amount": coupon.ErrMinAmountNegative,
	"max_uses":         coupon.ErrMaxUsesInvalid,
}

func validateCoupon(input *dto.SaveCouponInput) error {
	in := *input
	in.Code = strings.TrimSpace(in.Code)
	if err := validate.Struct(&in, couponMessages); err != nil {
		return err
	}

	switch in.Type {
	case model.CouponTypePercentage:
		if in.Value <= 0 || in.Value > 100 {
			return coupon.ErrPercentageRange
		}
	case model.CouponTypeFixed:
		if in.Value <= 0 {
			return coupon.ErrFixedPositive
		}
	}
	if in.StartsAt != nil && in.ExpiresAt != nil && !in.ExpiresAt.After(*in.StartsAt) {
		return coupon.ErrWindowInvalid
	}
	return nil
}

func apply(c *model.Coupon, input *dto.SaveCouponInput) {
	c.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	c.Type = input.Type
	c.Value = input.Value
	c.MinOrderAmount = input.MinOrderAmount
	c.MaxUses = input.MaxUses
	c.StartsAt = input.StartsAt
	c.ExpiresAt = input.ExpiresAt
	if input.IsActive != nil {
		c.IsActive = *input.IsActive
	}
}

func (uc *couponUseCase) CreateCoupon(ctx context.Context, input *dto.SaveCouponInput) (*model.Coupon, error) {
	if err := validateCoupon(input); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &model.Coupon{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		IsActive:  true,
	}
	apply(c, input)
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.logger.Info("coupon created", zap.String("coupon_id", c.ID), zap.String("code", c.Code))
	return c, nil
}

func (uc *couponUseCase) GetCoupon(ctx context.Context, id string) (*model.Coupon, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, coupon.ErrNotFound
	}
	return c, nil
}

func (uc *couponUseCase) ListCoupons(ctx context.Context, filters *dto.CouponFilters) ([]model.Coupon, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *couponUseCase) UpdateCoupon(ctx context.Context, input *dto.SaveCouponInput) (*model.Coupon, error) {
	if err := validateCoupon(input); err != nil {
		return nil, err
	}
	c, err := uc.GetCoupon(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	apply(c, input)
	c.Version = input.Version
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *couponUseCase) ToggleCoupon(ctx context.Context, input *dto.ToggleCouponInput) (*model.Coupon, error) {
	c, err := uc.GetCoupon(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	c.IsActive = !c.IsActive
	c.Version = input.Version
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *couponUseCase) DeleteCoupon(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
