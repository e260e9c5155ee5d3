// Package cache holds the per-tenant activity config snapshot used by every
// read that needs the activity catalog.
package cache

import (
	"context"
	"log/slog"
	"time"

	"trainingpanel/internal/domain/activity"
)

// DefaultTTL bounds how stale a snapshot may get when an invalidation is missed.
const DefaultTTL = 10 * time.Minute

// ConfigCache stores one activity config snapshot per tenant.
type ConfigCache interface {
	Get(ctx context.Context, tenant string) ([]activity.Config, bool, error)
	Set(ctx context.Context, tenant string, cfg []activity.Config) error
	Invalidate(ctx context.Context, tenant string) error
}

// LoadFunc reads the config snapshot from the tenant's storage.
type LoadFunc func(ctx context.Context) ([]activity.Config, error)

// ReadThrough returns the cached snapshot, loading and storing it on a miss.
// Cache failures degrade to a direct load.
// PRE: c and load are non-nil
// POST: Returns the loader's error only when the loader itself fails
func ReadThrough(ctx context.Context, c ConfigCache, tenant string, load LoadFunc) ([]activity.Config, error) {
	cfg, ok, err := c.Get(ctx, tenant)
	if err != nil {
		slog.Warn("cache_event", "event", "get_failed", "tenant", tenant, "error", err)
	} else if ok {
		return cfg, nil
	}

	cfg, err = load(ctx)
	if err != nil {
		return nil, err
	}
	// An Invalidate landing between load and Set is lost; the TTL bounds the staleness.
	if err := c.Set(ctx, tenant, cfg); err != nil {
		slog.Warn("cache_event", "event", "set_failed", "tenant", tenant, "error", err)
	}
	return cfg, nil
}

func clone(cfg []activity.Config) []activity.Config {
	if cfg == nil {
		return []activity.Config{}
	}
	out := make([]activity.Config, len(cfg))
	copy(out, cfg)
	return out
}
