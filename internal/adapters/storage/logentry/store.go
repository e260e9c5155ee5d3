package logentry

import (
	"context"

	domain "trainingpanel/internal/domain/logentry"
)

// Aggregate is the per-activity sum and row count of log entries.
type Aggregate struct {
	Activity string
	Sum      float64
	Count    int
}

// Store persists LogEntry state. Entries are append-only except for undo.
type Store interface {
	Add(ctx context.Context, e domain.LogEntry) (int64, error)
	Last(ctx context.Context) (domain.LogEntry, error)
	Delete(ctx context.Context, id int64) error
	AggregateSince(ctx context.Context, since string) ([]Aggregate, error)
	ListSince(ctx context.Context, since string, activities []string) ([]domain.LogEntry, error)
	CountByActivity(ctx context.Context, activity string) (int, error)
}
