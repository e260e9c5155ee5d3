package projections

import (
	"context"

	"trainingpanel/internal/adapters/cache"
	logstore "trainingpanel/internal/adapters/storage/logentry"
	"trainingpanel/internal/domain/activity"
	"trainingpanel/internal/domain/goal"
	"trainingpanel/internal/domain/logentry"
	"trainingpanel/internal/domain/run"
)

// LogAggregator sums log entries per activity.
type LogAggregator interface {
	AggregateSince(ctx context.Context, since string) ([]logstore.Aggregate, error)
}

// LogLister reads raw log entries.
type LogLister interface {
	ListSince(ctx context.Context, since string, activities []string) ([]logentry.LogEntry, error)
}

// GoalReader reads weekly goals.
type GoalReader interface {
	ListByWeek(ctx context.Context, weekKey string) ([]goal.Goal, error)
	SumForWeeks(ctx context.Context, activity string, weekKeys []string) (float64, error)
}

// ConfigLister reads the activity config from storage.
type ConfigLister interface {
	List(ctx context.Context) ([]activity.Config, error)
}

// ConfigCache serves the tenant's activity config snapshot.
type ConfigCache interface {
	Load(ctx context.Context, load cache.LoadFunc) ([]activity.Config, error)
}

// RunLister pages through stored runs.
type RunLister interface {
	List(ctx context.Context, limit, offset int) ([]run.Run, error)
	Count(ctx context.Context) (int, error)
}

// loadConfig reads the config snapshot, through the cache when one is wired.
func loadConfig(ctx context.Context, c ConfigCache, store ConfigLister) ([]activity.Config, error) {
	if c == nil {
		return store.List(ctx)
	}
	return c.Load(ctx, store.List)
}
