package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"trainingpanel/internal/adapters/cache"
	"trainingpanel/internal/adapters/http/middleware"
	"trainingpanel/internal/adapters/storage"
	activitystore "trainingpanel/internal/adapters/storage/activity"
	goalstore "trainingpanel/internal/adapters/storage/goal"
	logstore "trainingpanel/internal/adapters/storage/logentry"
	runstore "trainingpanel/internal/adapters/storage/run"
	"trainingpanel/internal/application/orchestrators"
)

// errNoSession is returned when a tenant is requested outside RequireAuth.
var errNoSession = errors.New("no session")

// tenantStores are the stores of the logged-in user's endpoint.
type tenantStores struct {
	name       string
	log        *logstore.SQLStore
	goals      *goalstore.SQLStore
	activities *activitystore.SQLStore
	runs       *runstore.SQLStore
	cache      *cache.Bound
}

// tenant resolves the session's storage endpoint through the registry.
// POST: Returns an error wrapping storage.ErrUnavailable when the endpoint cannot be reached
func (s *Server) tenant(r *http.Request) (*tenantStores, error) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return nil, errNoSession
	}
	t, err := s.registry.Get(r.Context(), sess.Username, sess.Endpoint)
	if err != nil {
		return nil, err
	}
	return &tenantStores{
		name:       t.Name,
		log:        logstore.NewSQLStore(t.DB),
		goals:      goalstore.NewSQLStore(t.DB),
		activities: activitystore.NewSQLStore(t.DB),
		runs:       runstore.NewSQLStore(t.DB),
		// keyed by the registry's tenant so users sharing an endpoint share one snapshot
		cache: cache.Bind(s.cache, t.Name),
	}, nil
}

// InitTenant migrates a freshly opened endpoint and seeds the default
// activity set when its config is empty. It is the registry's InitFunc.
func InitTenant(ctx context.Context, t *storage.Tenant) error {
	if err := storage.Migrate(ctx, t.DB.RawDB(), t.Dialect()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	_, err := orchestrators.ExecuteSeedActivities(ctx, orchestrators.SeedActivitiesDeps{
		Activities: activitystore.NewSQLStore(t.DB),
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
