package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"trainingpanel/internal/adapters/cache"
	"trainingpanel/internal/adapters/http/middleware"
	"trainingpanel/internal/adapters/http/perf"
	"trainingpanel/internal/adapters/storage"
	"trainingpanel/internal/application/orchestrators"
)

// DefaultRateLimitPerSecond is the per-IP request budget.
const DefaultRateLimitPerSecond = 10

// Options configures the HTTP surface.
type Options struct {
	CSRFKey            []byte // 32 bytes
	SecureCookies      bool
	TrustedOrigins     []string
	RateLimitPerSecond int
	SessionTTL         time.Duration
}

// Server holds everything the handlers need. Per-user stores are resolved
// from the session on every request.
type Server struct {
	registry   *storage.Registry
	cache      cache.ConfigCache
	users      orchestrators.UserDirectory
	sessions   *middleware.SessionStore
	collector  *perf.Collector
	opts       Options
	now        func() time.Time
	generateID func() string
}

// NewServer wires a server.
// PRE: registry, configCache and users are non-nil; collector may be nil
// POST: Returns a server with an empty session store
func NewServer(registry *storage.Registry, configCache cache.ConfigCache, users orchestrators.UserDirectory, collector *perf.Collector, opts Options) *Server {
	if opts.RateLimitPerSecond <= 0 {
		opts.RateLimitPerSecond = DefaultRateLimitPerSecond
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = middleware.DefaultSessionTTL
	}
	return &Server{
		registry:   registry,
		cache:      configCache,
		users:      users,
		sessions:   middleware.NewSessionStore(opts.SessionTTL),
		collector:  collector,
		opts:       opts,
		now:        time.Now,
		generateID: generateID,
	}
}

// Handler builds the routed, middleware-wrapped handler. The rate limiter's
// sweeper stops when ctx is cancelled.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	limiter := middleware.NewRateLimiter(ctx, s.opts.RateLimitPerSecond, time.Second)

	// Request order: Auth -> Timing -> RateLimit -> CSRF -> SecurityHeaders -> mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(s.opts.CSRFKey, s.opts.SecureCookies, s.opts.TrustedOrigins),
		middleware.RateLimit(limiter),
		middleware.Timing(s.collector),
		middleware.Auth(s.sessions),
	)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	api := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAuth(h))
	}

	api("GET /api/dashboard", s.handleDashboard)
	api("GET /api/state/weekly", s.handleWeeklyState)
	api("GET /api/chart", s.handleChart)
	api("GET /api/perf", s.handlePerf)

	api("GET /api/goals/current", s.handleCurrentGoals)
	api("GET /api/goals/historical", s.handleHistoricalGoal)
	api("PUT /api/goals", s.handleSetGoal)
	api("POST /api/goals/weekly", s.handleSaveWeeklyGoals)

	api("POST /api/logs", s.handleQuickAdd)
	api("POST /api/logs/correction", s.handleCorrection)
	api("DELETE /api/logs/last", s.handleUndoLastLog)

	api("GET /api/runs", s.handleRunHistory)
	api("POST /api/runs", s.handleAddRun)
	api("PATCH /api/runs/{id}", s.handleUpdateRun)
	api("DELETE /api/runs/{id}", s.handleDeleteRun)
	api("POST /api/runs/batch", s.handleReconcileRuns)

	api("GET /api/activities", s.handleActivityCatalog)
	api("POST /api/activities", s.handleAddActivity)
	api("DELETE /api/activities/{name}", s.handleDeleteActivity)
	api("POST /api/activities/{name}/rename", s.handleRenameActivity)
	api("POST /api/categories/rename", s.handleRenameCategory)

	api("GET /api/planner", s.handlePlanner)
	api("POST /api/planner/batch", s.handleReconcilePlanner)
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}
