package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/customer"
	"github.com/fekuna/omnipos-admin-service/internal/customer/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/validate"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/google/uuid"
)

type customerUseCase struct {
	repo   customer.Repository
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:   repo,
		logger: log,
	}
}

var customerMessages = validate.Messages{
	"full_name": customer.ErrNameRequired,
	"email":     customer.ErrEmailInvalid,
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// apply copies a validated input onto c. Emails are stored lower-cased.
func (uc *customerUseCase) apply(c *model.Customer, input *dto.SaveCustomerInput) error {
	in := *input
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = optional(in.Phone)
	in.Address = optional(in.Address)
	in.City = optional(in.City)
	if err := validate.Struct(&in, customerMessages); err != nil {
		return err
	}
	c.FullName = in.FullName
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.City = in.City
	return nil
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.SaveCustomerInput) (*model.Customer, error) {
	now := time.Now()
	c := &model.Customer{BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}}
	if err := uc.apply(c, input); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, input *dto.SaveCustomerInput) (*model.Customer, error) {
	c, err := uc.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(c, input); err != nil {
		return nil, err
	}
	c.Version = input.Version
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
