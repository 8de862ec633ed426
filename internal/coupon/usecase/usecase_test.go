package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/coupon"
	"github.com/fekuna/omnipos-admin-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows    map[string]*model.Coupon
	created *model.Coupon
	updated *model.Coupon
}

func (f *fakeRepo) Create(_ context.Context, c *model.Coupon) error {
	f.created = c
	c.Version = 1
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*model.Coupon, error) {
	if c, ok := f.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindAll(context.Context, *dto.CouponFilters) ([]model.Coupon, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Update(_ context.Context, c *model.Coupon) error {
	f.updated = c
	c.Version++
	return nil
}

func (f *fakeRepo) Delete(context.Context, string) error { return nil }

func intPtr(i int) *int { return &i }

func TestCreateCoupon(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewCouponUseCase(repo, logger.NewNop())

	c, err := uc.CreateCoupon(context.Background(), &dto.SaveCouponInput{
		Code:    " lebaran25 ",
		Type:    model.CouponTypePercentage,
		Value:   25,
		MaxUses: intPtr(100),
	})

	require.NoError(t, err)
	assert.Equal(t, "LEBARAN25", c.Code)
	assert.True(t, c.IsActive)
	assert.Equal(t, 1, c.Version)
	assert.Same(t, c, repo.created)
}

func TestCreateCoupon_Validation(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	tests := []struct {
		name  string
		input dto.SaveCouponInput
		want  error
	}{
		{name: "blank code", input: dto.SaveCouponInput{Code: " ", Type: "fixed", Value: 1}, want: coupon.ErrCodeRequired},
		{name: "unknown type", input: dto.SaveCouponInput{Code: "A", Type: "bogo", Value: 1}, want: coupon.ErrTypeInvalid},
		{name: "percentage zero", input: dto.SaveCouponInput{Code: "A", Type: "percentage", Value: 0}, want: coupon.ErrPercentageRange},
		{name: "percentage over 100", input: dto.SaveCouponInput{Code: "A", Type: "percentage", Value: 100.5}, want: coupon.ErrPercentageRange},
		{name: "fixed zero", input: dto.SaveCouponInput{Code: "A", Type: "fixed", Value: 0}, want: coupon.ErrFixedPositive},
		{name: "negative minimum", input: dto.SaveCouponInput{Code: "A", Type: "fixed", Value: 5, MinOrderAmount: -1}, want: coupon.ErrMinAmountNegative},
		{name: "zero max uses", input: dto.SaveCouponInput{Code: "A", Type: "fixed", Value: 5, MaxUses: intPtr(0)}, want: coupon.ErrMaxUsesInvalid},
		{name: "expiry before start", input: dto.SaveCouponInput{Code: "A", Type: "fixed", Value: 5, StartsAt: &start, ExpiresAt: &before}, want: coupon.ErrWindowInvalid},
		{name: "expiry equals start", input: dto.SaveCouponInput{Code: "A", Type: "fixed", Value: 5, StartsAt: &start, ExpiresAt: &start}, want: coupon.ErrWindowInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			uc := NewCouponUseCase(repo, logger.NewNop())

			_, err := uc.CreateCoupon(context.Background(), &tt.input)

			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Nil(t, repo.created)
		})
	}
}

func TestPercentageBoundaryAccepted(t *testing.T) {
	uc := NewCouponUseCase(&fakeRepo{}, logger.NewNop())
	_, err := uc.CreateCoupon(context.Background(), &dto.SaveCouponInput{Code: "FULL", Type: "percentage", Value: 100})
	assert.NoError(t, err)
}

func TestUpdateAndToggleCoupon(t *testing.T) {
	repo := &fakeRepo{rows: map[string]*model.Coupon{
		"cp-1": {BaseModel: model.BaseModel{ID: "cp-1"}, Code: "OLD", Type: "fixed", Value: 5, IsActive: true, UsedCount: 7, Version: 2},
	}}
	uc := NewCouponUseCase(repo, logger.NewNop())

	c, err := uc.UpdateCoupon(context.Background(), &dto.SaveCouponInput{ID: "cp-1", Version: 2, Code: "new", Type: "fixed", Value: 10})
	require.NoError(t, err)
	assert.Equal(t, "NEW", c.Code)
	assert.True(t, c.IsActive, "nil is_active keeps the stored value")
	assert.Equal(t, 7, c.UsedCount)
	assert.Equal(t, 3, c.Version)

	c, err = uc.ToggleCoupon(context.Background(), &dto.ToggleCouponInput{ID: "cp-1", Version: 2})
	require.NoError(t, err)
	assert.False(t, c.IsActive)
	assert.Equal(t, 2, repo.updated.Version-1)

	_, err = uc.ToggleCoupon(context.Background(), &dto.ToggleCouponInput{ID: "cp-404"})
	assert.True(t, errors.Is(err, coupon.ErrNotFound))
}
