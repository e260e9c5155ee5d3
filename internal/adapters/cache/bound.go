package cache

import (
	"context"

	"trainingpanel/internal/domain/activity"
)

// Bound scopes a ConfigCache to one tenant so request handlers can pass it to
// orchestrators and projections without threading the tenant name.
type Bound struct {
	cache  ConfigCache
	tenant string
}

// Bind returns a tenant-scoped view of c.
// PRE: c is non-nil
func Bind(c ConfigCache, tenant string) *Bound {
	return &Bound{cache: c, tenant: tenant}
}

// Tenant returns the bound tenant name.
func (b *Bound) Tenant() string {
	return b.tenant
}

// Invalidate drops the tenant's snapshot.
func (b *Bound) Invalidate(ctx context.Context) error {
	return b.cache.Invalidate(ctx, b.tenant)
}

// Load returns the tenant's snapshot through the cache.
func (b *Bound) Load(ctx context.Context, load LoadFunc) ([]activity.Config, error) {
	return ReadThrough(ctx, b.cache, b.tenant, load)
}
