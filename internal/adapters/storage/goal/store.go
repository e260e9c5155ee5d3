package goal

import (
	"context"

	domain "trainingpanel/internal/domain/goal"
)

// Store persists weekly Goal state keyed by (week key, activity).
type Store interface {
	Upsert(ctx context.Context, g domain.Goal) error
	ListByWeek(ctx context.Context, weekKey string) ([]domain.Goal, error)
	SumForWeeks(ctx context.Context, activity string, weekKeys []string) (float64, error)
	DeleteByActivity(ctx context.Context, activity string) (int64, error)
}
