package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/order"
	"github.com/fekuna/omnipos-admin-service/internal/order/dto"
	"github.com/fekuna/omnipos-admin-service/pkg/broker"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"go.uber.org/zap"
)

const EventOrderStatusChanged = "OrderStatusChanged"

type orderUseCase struct {
	repo      order.Repository
	publisher broker.Publisher
	logger    logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, publisher broker.Publisher, log logger.ZapLogger) order.UseCase {
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	return &orderUseCase{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	if filters.Status != "" && !slices.Contains(model.OrderStatuses, filters.Status) {
		return nil, 0, order.ErrStatusInvalid.With("Status", filters.Status)
	}
	if filters.PaymentStatus != "" && !slices.Contains(model.PaymentStatuses, filters.PaymentStatus) {
		return nil, 0, order.ErrPaymentStatusInvalid.With("Status", filters.PaymentStatus)
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error) {
	if !slices.Contains(model.OrderStatuses, input.Status) {
		return nil, order.ErrStatusInvalid.With("Status", input.Status)
	}
	return uc.change(ctx, input, func(o *model.Order) error {
		if o.Status == model.OrderStatusCancelled && input.Status != model.OrderStatusCancelled {
			return order.ErrCancelledFinal
		}
		o.Status = input.Status
		return nil
	})
}

func (uc *orderUseCase) UpdatePaymentStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error) {
	if !slices.Contains(model.PaymentStatuses, input.Status) {
		return nil, order.ErrPaymentStatusInvalid.With("Status", input.Status)
	}
	return uc.change(ctx, input, func(o *model.Order) error {
		o.PaymentStatus = input.Status
		return nil
	})
}

// change applies set to the stored order and persists it. Unchanged values
// are returned as-is without bumping the version or publishing.
func (uc *orderUseCase) change(ctx context.Context, input *dto.UpdateStatusInput, set func(*model.Order) error) (*model.Order, error) {
	o, err := uc.GetOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	prevStatus, prevPayment := o.Status, o.PaymentStatus
	if err := set(o); err != nil {
		return nil, err
	}
	if o.Status == prevStatus && o.PaymentStatus == prevPayment {
		return o, nil
	}

	o.Version = input.Version
	o.UpdatedAt = time.Now()
	if err := uc.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	uc.logger.Info("order status changed",
		zap.String("order_id", o.ID),
		zap.String("status", prevStatus+"->"+o.Status),
		zap.String("payment_status", prevPayment+"->"+o.PaymentStatus),
	)

	evt := dto.StatusChangedEvent{
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		PreviousStatus:  prevStatus,
		Status:          o.Status,
		PreviousPayment: prevPayment,
		PaymentStatus:   o.PaymentStatus,
		Items:           make([]dto.EventItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		evt.Items = append(evt.Items, dto.EventItem{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity})
	}
	go uc.publish(context.Background(), o.ID, evt)

	return o, nil
}

func (uc *orderUseCase) publish(ctx context.Context, key string, evt dto.StatusChangedEvent) {
	if err := uc.publisher.Publish(ctx, key, EventOrderStatusChanged, evt); err != nil {
		uc.logger.Error("failed to publish order event", zap.String("order_id", key), zap.Error(err))
	}
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
