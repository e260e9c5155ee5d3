package run

import (
	"context"

	domain "trainingpanel/internal/domain/run"
)

// Store persists Run rows.
type Store interface {
	Add(ctx context.Context, r domain.Run) (int64, error)
	Get(ctx context.Context, id int64) (domain.Run, error)
	UpdateColumn(ctx context.Context, id int64, column string, value any) error
	RecomputePace(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.Run, error)
	Count(ctx context.Context) (int, error)
}
