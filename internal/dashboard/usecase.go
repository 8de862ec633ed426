package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-admin-service/internal/dashboard/dto"
)

type UseCase interface {
	GetSummary(ctx context.Context) (*dto.Summary, error)
}
