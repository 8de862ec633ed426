package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/dashboard"
	"github.com/fekuna/omnipos-admin-service/internal/dashboard/dto"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/pkg/cache"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	summaryKey   = "dashboard:summary"
	summaryTTL   = time.Minute
	recentOrders = 5
)

type dashboardUseCase struct {
	repo      dashboard.Repository
	cache     cache.Store
	threshold int
	logger    logger.ZapLogger
}

func NewDashboardUseCase(repo dashboard.Repository, store cache.Store, lowStockThreshold int, log logger.ZapLogger) dashboard.UseCase {
	return &dashboardUseCase{
		repo:      repo,
		cache:     store,
		threshold: lowStockThreshold,
		logger:    log,
	}
}

// GetSummary serves a cached snapshot for up to a minute.
func (uc *dashboardUseCase) GetSummary(ctx context.Context) (*dto.Summary, error) {
	if uc.cache != nil {
		var cached dto.Summary
		err := uc.cache.GetJSON(ctx, summaryKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	s := &dto.Summary{
		LowStockThreshold: uc.threshold,
		OrdersByStatus:    make(map[string]int, len(model.OrderStatuses)),
	}
	for _, status := range model.OrderStatuses {
		s.OrdersByStatus[status] = 0
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := uc.repo.Totals(gctx, uc.threshold)
		if err != nil {
			return err
		}
		s.Totals = *t
		return nil
	})
	var counts []dto.StatusCount
	g.Go(func() error {
		var err error
		counts, err = uc.repo.OrdersByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		s.RecentOrders, err = uc.repo.RecentOrders(gctx, recentOrders)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, c := range counts {
		s.OrdersByStatus[c.Status] = c.Count
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, summaryKey, s, summaryTTL); err != nil {
			uc.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return s, nil
}
