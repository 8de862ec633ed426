package listener

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/inventory"
	"github.com/fekuna/omnipos-admin-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/broker"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUseCase struct {
	inputs []dto.AdjustStockInput
	err    error
}

func (f *fakeUseCase) ListStock(context.Context, *dto.InventoryFilters) ([]model.VariantStock, int, error) {
	return nil, 0, nil
}

func (f *fakeUseCase) AdjustStock(_ context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	f.inputs = append(f.inputs, *input)
	return &model.StockMovement{}, f.err
}

func (f *fakeUseCase) ListMovements(context.Context, *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return nil, 0, nil
}

type fakeReader struct {
	messages []kafka.Message
	cancel   context.CancelFunc
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.messages) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := f.messages[0]
	f.messages = f.messages[1:]
	return msg, nil
}

func event(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	value, err := json.Marshal(broker.Event{EventID: "e-1", EventType: eventType, Payload: body, Timestamp: time.Now()})
	require.NoError(t, err)
	return value
}

func TestProcessMessage_OrderCreatedDeducts(t *testing.T) {
	uc := &fakeUseCase{}
	l := NewInventoryListener(nil, uc, logger.NewNop())

	l.processMessage(context.Background(), event(t, EventOrderCreated, map[string]interface{}{
		"id": "o-1",
		"items": []map[string]interface{}{
			{"variant_id": "v-1", "quantity": 2},
			{"variant_id": nil, "quantity": 1},
			{"variant_id": "v-2", "quantity": 1},
		},
	}))

	require.Len(t, uc.inputs, 2)
	assert.Equal(t, dto.AdjustStockInput{
		VariantID:      "v-1",
		QuantityChange: -2,
		Reason:         EventOrderCreated,
		ReferenceType:  dto.ReferenceOrder,
		ReferenceID:    "o-1",
	}, uc.inputs[0])
	assert.Equal(t, -1, uc.inputs[1].QuantityChange)
}

func TestProcessMessage_SumsRepeatedVariant(t *testing.T) {
	uc := &fakeUseCase{}
	l := NewInventoryListener(nil, uc, logger.NewNop())

	l.processMessage(context.Background(), event(t, EventOrderCreated, map[string]interface{}{
		"id": "o-2",
		"items": []map[string]interface{}{
			{"variant_id": "v-1", "quantity": 2},
			{"variant_id": "v-2", "quantity": 1},
			{"variant_id": "v-1", "quantity": 3},
			{"variant_id": "v-2", "quantity": 0},
		},
	}))

	require.Len(t, uc.inputs, 2)
	assert.Equal(t, "v-1", uc.inputs[0].VariantID)
	assert.Equal(t, -5, uc.inputs[0].QuantityChange)
	assert.Equal(t, "v-2", uc.inputs[1].VariantID)
	assert.Equal(t, -1, uc.inputs[1].QuantityChange)
}

func TestProcessMessage_CancellationRestocks(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		status   string
		want     int
	}{
		{name: "into cancelled", previous: model.OrderStatusPending, status: model.OrderStatusCancelled, want: 1},
		{name: "already cancelled", previous: model.OrderStatusCancelled, status: model.OrderStatusCancelled, want: 0},
		{name: "shipped", previous: model.OrderStatusPending, status: model.OrderStatusShipped, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			l := NewInventoryListener(nil, uc, logger.NewNop())

			l.processMessage(context.Background(), event(t, EventOrderStatusChanged, map[string]interface{}{
				"id":              "o-1",
				"previous_status": tt.previous,
				"status":          tt.status,
				"items":           []map[string]interface{}{{"variant_id": "v-1", "quantity": 3}},
			}))

			require.Len(t, uc.inputs, tt.want)
			if tt.want > 0 {
				assert.Equal(t, 3, uc.inputs[0].QuantityChange)
				assert.Equal(t, dto.ReferenceOrderCancel, uc.inputs[0].ReferenceType)
			}
		})
	}
}

func TestProcessMessage_IgnoresNoiseAndReplays(t *testing.T) {
	uc := &fakeUseCase{err: inventory.ErrAlreadyApplied}
	l := NewInventoryListener(nil, uc, logger.NewNop())

	l.processMessage(context.Background(), []byte(`not json`))
	l.processMessage(context.Background(), event(t, "ProductSaved", map[string]string{"id": "p-1"}))
	assert.Empty(t, uc.inputs)

	l.processMessage(context.Background(), event(t, EventOrderCreated, map[string]interface{}{
		"id":    "o-1",
		"items": []map[string]interface{}{{"variant_id": "v-1", "quantity": 1}},
	}))
	assert.Len(t, uc.inputs, 1)
}

func TestStart_StopsOnCancel(t *testing.T) {
	uc := &fakeUseCase{}
	ctx, cancel := context.WithCancel(context.Background())
	reader := &fakeReader{cancel: cancel, messages: []kafka.Message{
		{Value: event(t, EventOrderCreated, map[string]interface{}{
			"id":    "o-7",
			"items": []map[string]interface{}{{"variant_id": "v-1", "quantity": 1}},
		})},
	}}
	l := NewInventoryListener(reader, uc, logger.NewNop())

	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
	require.Len(t, uc.inputs, 1)
	assert.Equal(t, "o-7", uc.inputs[0].ReferenceID)
}
