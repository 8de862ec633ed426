package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/dashboard/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/cache"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	threshold int
	calls     int
	err       error
}

func (f *fakeRepo) Totals(_ context.Context, threshold int) (*dto.Totals, error) {
	f.threshold = threshold
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dto.Totals{Revenue: 1250.5, OrderCount: 9, CustomerCount: 4, ProductCount: 12, LowStockCount: 3}, nil
}

func (f *fakeRepo) OrdersByStatus(context.Context) ([]dto.StatusCount, error) {
	return []dto.StatusCount{{Status: "pending", Count: 6}, {Status: "shipped", Count: 3}}, nil
}

func (f *fakeRepo) RecentOrders(_ context.Context, limit int) ([]model.Order, error) {
	return make([]model.Order, limit), nil
}

type memStore struct {
	items map[string]dto.Summary
}

func (m *memStore) GetJSON(_ context.Context, key string, dst interface{}) error {
	s, ok := m.items[key]
	if !ok {
		return cache.ErrMiss
	}
	*dst.(*dto.Summary) = s
	return nil
}

func (m *memStore) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	m.items[key] = *v.(*dto.Summary)
	return nil
}

func (m *memStore) DeleteByPattern(context.Context, string) error { return nil }

func TestGetSummary(t *testing.T) {
	repo := &fakeRepo{}
	store := &memStore{items: map[string]dto.Summary{}}
	uc := NewDashboardUseCase(repo, store, 5, logger.NewNop())

	s, err := uc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, repo.threshold)
	assert.Equal(t, 1250.5, s.Revenue)
	assert.Equal(t, 3, s.LowStockCount)
	assert.Equal(t, 6, s.OrdersByStatus["pending"])
	assert.Equal(t, 0, s.OrdersByStatus["cancelled"], "every status is reported")
	assert.Len(t, s.OrdersByStatus, len(model.OrderStatuses))
	assert.Len(t, s.RecentOrders, recentOrders)

	_, err = uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second call served from cache")
}

func TestGetSummary_RepoError(t *testing.T) {
	boom := errors.New("db down")
	uc := NewDashboardUseCase(&fakeRepo{err: boom}, nil, 5, logger.NewNop())

	_, err := uc.GetSummary(context.Background())

	assert.ErrorIs(t, err, boom)
}
