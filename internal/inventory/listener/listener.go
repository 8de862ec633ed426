package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/inventory"
	"github.com/fekuna/omnipos-admin-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/broker"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type InventoryListener struct {
	reader MessageReader
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryListener(reader MessageReader, uc inventory.UseCase, log logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		reader: reader,
		uc:     uc,
		logger: log,
	}
}

// Start consumes order events until ctx is cancelled.
func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("starting inventory listener")
	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("stopping inventory listener")
				return
			}
			l.logger.Error("failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

type orderPayload struct {
	ID             string             `json:"id"`
	PreviousStatus string             `json:"previous_status"`
	Status         string             `json:"status"`
	Items          []orderItemPayload `json:"items"`
}

type orderItemPayload struct {
	VariantID *string `json:"variant_id"`
	Quantity  int     `json:"quantity"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event broker.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	var sign int
	var refType string
	switch event.EventType {
	case EventOrderCreated:
		sign, refType = -1, dto.ReferenceOrder
	case EventOrderStatusChanged:
		sign, refType = 1, dto.ReferenceOrderCancel
	default:
		return
	}

	var payload orderPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		l.logger.Error("failed to unmarshal order payload", zap.String("event_id", event.EventID), zap.Error(err))
		return
	}
	if event.EventType == EventOrderStatusChanged {
		// Only a transition into cancelled returns stock.
		if payload.Status != model.OrderStatusCancelled || payload.PreviousStatus == model.OrderStatusCancelled {
			return
		}
	}

	l.logger.Info("processing order event",
		zap.String("event", event.EventType),
		zap.String("order_id", payload.ID),
	)

	for _, line := range perVariant(payload.Items) {
		input := &dto.AdjustStockInput{
			VariantID:      line.variantID,
			QuantityChange: sign * line.quantity,
			Reason:         event.EventType,
			ReferenceType:  refType,
			ReferenceID:    payload.ID,
		}

		_, err := l.uc.AdjustStock(ctx, input)
		switch {
		case err == nil:
		case errors.Is(err, inventory.ErrAlreadyApplied):
			l.logger.Debug("order item already applied",
				zap.String("order_id", payload.ID),
				zap.String("variant_id", line.variantID),
			)
		default:
			l.logger.Error("failed to adjust stock for order item",
				zap.String("order_id", payload.ID),
				zap.String("variant_id", line.variantID),
				zap.Error(err),
			)
		}
	}
}

type variantQuantity struct {
	variantID string
	quantity  int
}

// perVariant sums item quantities by variant in first-seen order. One
// movement per (variant, order) is all the ledger accepts.
func perVariant(items []orderItemPayload) []variantQuantity {
	var out []variantQuantity
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.VariantID == nil || item.Quantity <= 0 {
			continue
		}
		if i, ok := index[*item.VariantID]; ok {
			out[i].quantity += item.Quantity
			continue
		}
		index[*item.VariantID] = len(out)
		out = append(out, variantQuantity{variantID: *item.VariantID, quantity: item.Quantity})
	}
	return out
}
