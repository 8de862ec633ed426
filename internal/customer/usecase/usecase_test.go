package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/customer"
	"github.com/fekuna/omnipos-admin-service/internal/customer/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows      map[string]*model.Customer
	createErr error
	updated   *model.Customer
}

func (f *fakeRepo) Create(_ context.Context, c *model.Customer) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.Version = 1
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*model.Customer, error) {
	if c, ok := f.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindAll(context.Context, *dto.CustomerFilters) ([]model.Customer, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Update(_ context.Context, c *model.Customer) error {
	f.updated = c
	c.Version++
	return nil
}

func (f *fakeRepo) Delete(context.Context, string) error { return nil }

func strPtr(s string) *string { return &s }

func TestCreateCustomer(t *testing.T) {
	uc := NewCustomerUseCase(&fakeRepo{}, logger.NewNop())

	c, err := uc.CreateCustomer(context.Background(), &dto.SaveCustomerInput{
		FullName: " Sari Dewi ",
		Email:    " Sari@Example.COM ",
		Phone:    strPtr("  "),
		City:     strPtr("Bandung"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Sari Dewi", c.FullName)
	assert.Equal(t, "sari@example.com", c.Email)
	assert.Nil(t, c.Phone)
	assert.Equal(t, "Bandung", *c.City)
	assert.Equal(t, 1, c.Version)
}

func TestCreateCustomer_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input dto.SaveCustomerInput
		want  error
	}{
		{name: "missing name", input: dto.SaveCustomerInput{Email: "a@b.co"}, want: customer.ErrNameRequired},
		{name: "missing email", input: dto.SaveCustomerInput{FullName: "A"}, want: customer.ErrEmailInvalid},
		{name: "no domain", input: dto.SaveCustomerInput{FullName: "A", Email: "ann@"}, want: customer.ErrEmailInvalid},
		{name: "display name", input: dto.SaveCustomerInput{FullName: "A", Email: "Ann <ann@example.com>"}, want: customer.ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewCustomerUseCase(&fakeRepo{}, logger.NewNop())
			_, err := uc.CreateCustomer(context.Background(), &tt.input)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	uc := NewCustomerUseCase(&fakeRepo{createErr: apperr.ErrDuplicate}, logger.NewNop())
	_, err := uc.CreateCustomer(context.Background(), &dto.SaveCustomerInput{FullName: "A", Email: "a@b.co"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestUpdateCustomer(t *testing.T) {
	repo := &fakeRepo{rows: map[string]*model.Customer{
		"cu-1": {BaseModel: model.BaseModel{ID: "cu-1"}, FullName: "Old", Email: "old@b.co", Version: 2, OrderCount: 3},
	}}
	uc := NewCustomerUseCase(repo, logger.NewNop())

	c, err := uc.UpdateCustomer(context.Background(), &dto.SaveCustomerInput{ID: "cu-1", Version: 2, FullName: "New", Email: "new@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "New", repo.updated.FullName)
	assert.Equal(t, 3, c.Version)
	assert.Equal(t, 3, c.OrderCount)

	_, err = uc.GetCustomer(context.Background(), "cu-404")
	assert.True(t, errors.Is(err, customer.ErrNotFound))
}
