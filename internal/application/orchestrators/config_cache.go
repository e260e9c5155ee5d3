package orchestrators

import (
	"context"
	"log/slog"
	"time"
)

// ConfigInvalidator drops the session tenant's cached activity config.
type ConfigInvalidator interface {
	Invalidate(ctx context.Context) error
}

// invalidateConfig runs after every config write. A failed invalidation is
// logged only; the cache TTL bounds the staleness.
func invalidateConfig(ctx context.Context, c ConfigInvalidator, event string) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx); err != nil {
		slog.Warn("cache_event", "event", "invalidate_failed", "after", event, "error", err)
	}
}

// now returns the injected clock or the wall clock.
func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now()
}
