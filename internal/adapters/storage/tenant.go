package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"trainingpanel/internal/adapters/http/perf"
)

// OpenFunc opens a storage endpoint. Open is the production implementation.
type OpenFunc func(ctx context.Context, url string) (*sql.DB, Dialect, error)

// InitFunc prepares a freshly opened tenant (migrations, seeding).
type InitFunc func(ctx context.Context, t *Tenant) error

// Tenant is one user's storage endpoint and its open connection.
type Tenant struct {
	Name     string
	Endpoint string
	DB       *TimedDB
}

// Dialect returns the tenant's SQL flavour.
func (t *Tenant) Dialect() Dialect {
	return t.DB.Dialect()
}

// DefaultOpenTimeout bounds opening and initialising one endpoint.
const DefaultOpenTimeout = 15 * time.Second

// slot serialises connects to one endpoint. tenant is read without mu so
// Endpoints and Close never wait on a slow dial.
type slot struct {
	mu     sync.Mutex
	tenant atomic.Pointer[Tenant]
}

// Registry caches one connection per endpoint.
// INVARIANT: at most one open *sql.DB per endpoint
// INVARIANT: mu guards the slots map only; no I/O happens under it
type Registry struct {
	mu          sync.Mutex
	slots       map[string]*slot
	open        OpenFunc
	init        InitFunc
	collector   *perf.Collector
	openTimeout time.Duration
}

// NewRegistry creates a tenant registry.
// PRE: open is non-nil; init and collector may be nil
// POST: Returns an empty registry
func NewRegistry(open OpenFunc, init InitFunc, collector *perf.Collector) *Registry {
	return &Registry{
		slots:       make(map[string]*slot),
		open:        open,
		init:        init,
		collector:   collector,
		openTimeout: DefaultOpenTimeout,
	}
}

func (r *Registry) slotFor(endpoint string) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[endpoint]
	if !ok {
		s = &slot{}
		r.slots[endpoint] = s
	}
	return s
}

// Get returns the tenant bound to endpoint, opening it on first use.
// A cached connection that fails its ping is closed, evicted and reopened
// exactly once. Only callers of the same endpoint wait on each other.
// PRE: endpoint is non-empty
// POST: Returns a live tenant, or an error wrapping ErrUnavailable
func (r *Registry) Get(ctx context.Context, name, endpoint string) (*Tenant, error) {
	s := r.slotFor(endpoint)
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.tenant.Load(); t != nil {
		err := t.DB.PingContext(ctx)
		if err == nil {
			return t, nil
		}
		slog.Warn("storage_event", "event", "tenant_reconnect", "tenant", t.Name, "error", err)
		if s.tenant.CompareAndSwap(t, nil) {
			_ = t.DB.Close()
		}
	}

	t, err := r.connect(ctx, name, endpoint)
	if err != nil {
		return nil, err
	}
	s.tenant.Store(t)
	return t, nil
}

func (r *Registry) connect(ctx context.Context, name, endpoint string) (*Tenant, error) {
	if r.openTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.openTimeout)
		defer cancel()
	}
	db, dialect, err := r.open(ctx, endpoint)
	if err != nil {
		slog.Error("storage_event", "event", "tenant_open_failed", "tenant", name, "error", err)
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	t := &Tenant{
		Name:     name,
		Endpoint: endpoint,
		DB:       NewTimedDB(db, dialect, name, r.collector),
	}
	if r.init != nil {
		if err := r.init(ctx, t); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init tenant %s: %w", name, err)
		}
	}
	slog.Info("storage_event", "event", "tenant_opened", "tenant", name, "dialect", dialect)
	return t, nil
}

// Endpoints returns the endpoints currently held open, sorted.
func (r *Registry) Endpoints() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.slots))
	for ep, s := range r.slots {
		if s.tenant.Load() != nil {
			out = append(out, ep)
		}
	}
	sort.Strings(out)
	return out
}

// Close closes every cached connection. A connect still in flight is not
// waited for.
// POST: no cached tenant remains
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for ep, s := range r.slots {
		if t := s.tenant.Swap(nil); t != nil {
			if err := t.DB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		delete(r.slots, ep)
	}
	return errors.Join(errs...)
}
