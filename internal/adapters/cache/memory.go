package cache

import (
	"context"
	"sync"
	"time"

	"trainingpanel/internal/domain/activity"
)

type memoryEntry struct {
	cfg     []activity.Config
	expires time.Time
}

// Memory is an in-process ConfigCache with a TTL per entry.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an in-process cache. ttl <= 0 selects DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the tenant's snapshot if present and not expired.
func (m *Memory) Get(_ context.Context, tenant string) ([]activity.Config, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[tenant]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, tenant)
		return nil, false, nil
	}
	return clone(e.cfg), true, nil
}

// Set stores a copy of cfg for the tenant.
func (m *Memory) Set(_ context.Context, tenant string, cfg []activity.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[tenant] = memoryEntry{cfg: clone(cfg), expires: m.now().Add(m.ttl)}
	return nil
}

// Invalidate drops the tenant's snapshot.
func (m *Memory) Invalidate(_ context.Context, tenant string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, tenant)
	return nil
}
