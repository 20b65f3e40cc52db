package repository

import (
	"context"

	"github.com/JulHeg/LeRobotPanorama/internal/api/util"
	"github.com/JulHeg/LeRobotPanorama/internal/core/domain"
)

// RunFilter embeds ListFilter for generic query/order/pagination
type RunFilter struct {
	util.ListFilter
}

type RunRepository interface {
	Create(ctx context.Context, run *domain.Run) error
	FindByID(ctx context.Context, id int64) (*domain.Run, error)
	FindByRunID(ctx context.Context, runID string) (*domain.Run, error)
	Update(ctx context.Context, run *domain.Run) error
	List(ctx context.Context, filter RunFilter) ([]*domain.Run, error)
	Count(ctx context.Context, filter RunFilter) (int, error)

	// Find all runs still marked running (for the single-run gate)
	FindRunning(ctx context.Context) ([]*domain.Run, error)
}
