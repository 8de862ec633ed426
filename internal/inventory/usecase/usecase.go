package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/inventory"
	"github.com/fekuna/omnipos-admin-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/validate"
	"github.com/fekuna/omnipos-admin-service/pkg/cache"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond

	productListPattern = "products:list:*"
)

type inventoryUseCase struct {
	repo      inventory.Repository
	locker    cache.Locker
	cache     cache.Store
	threshold int
	logger    logger.ZapLogger
}

// NewInventoryUseCase wires stock adjustments. locker is required; store
// may be nil, in which case product list caches are left to expire.
func NewInventoryUseCase(repo inventory.Repository, locker cache.Locker, store cache.Store, lowStockThreshold int, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:      repo,
		locker:    locker,
		cache:     store,
		threshold: lowStockThreshold,
		logger:    log,
	}
}

func (uc *inventoryUseCase) ListStock(ctx context.Context, filters *dto.InventoryFilters) ([]model.VariantStock, int, error) {
	if filters.LowStock && filters.Threshold <= 0 {
		filters.Threshold = uc.threshold
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if err := validate.Struct(input, validate.Messages{"quantity_change": inventory.ErrZeroChange}); err != nil {
		return nil, err
	}

	lockKey := "lock:inventory:" + input.VariantID
	lockValue := uuid.New().String()
	if err := uc.acquire(ctx, lockKey, lockValue); err != nil {
		return nil, err
	}
	defer func() {
		if err := uc.locker.ReleaseLock(context.Background(), lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release inventory lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = "adjustment"
	}
	refType := input.ReferenceType
	if refType == "" {
		refType = dto.ReferenceManual
	}

	m := &model.StockMovement{
		ID:             uuid.New().String(),
		VariantID:      input.VariantID,
		QuantityChange: input.QuantityChange,
		Reason:         reason,
		ReferenceType:  &refType,
		CreatedAt:      time.Now(),
	}
	if input.ReferenceID != "" {
		m.ReferenceID = &input.ReferenceID
	}
	if input.UserID != "" {
		m.CreatedBy = &input.UserID
	}

	if err := uc.repo.AdjustStockWithMovement(ctx, m); err != nil {
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("variant_id", m.VariantID),
		zap.Int("before", m.QuantityBefore),
		zap.Int("after", m.QuantityAfter),
		zap.String("reference_type", refType),
	)
	go uc.invalidateProductLists(context.Background())

	return m, nil
}

// acquire tries the variant lock a few times before reporting busy.
func (uc *inventoryUseCase) acquire(ctx context.Context, key, value string) error {
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire inventory lock", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	return inventory.ErrBusy
}

func (uc *inventoryUseCase) invalidateProductLists(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, productListPattern); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}
