package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trainingpanel/internal/adapters/cache"
	web "trainingpanel/internal/adapters/http"
	"trainingpanel/internal/adapters/http/middleware"
	"trainingpanel/internal/adapters/http/perf"
	"trainingpanel/internal/adapters/storage"
	"trainingpanel/internal/config"
)

// shutdownTimeout bounds how long in-flight requests may take after a signal.
const shutdownTimeout = 15 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Serve starts the web server. Each configured user's database is opened,
migrated and seeded on their first login.

Examples:
  trainingpanel serve
  trainingpanel serve --addr :9000 --config /etc/trainingpanel.yaml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(cfg.Users) == 0 {
		return errors.New("no users configured; run `trainingpanel config init` to create a sample config")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage.SetSlowQueryThreshold(cfg.Perf.SlowQueryMs)
	middleware.SetSlowRequestThreshold(cfg.Perf.SlowRequestMs)
	collector := perf.NewCollector(cfg.Perf.RingSize)

	configCache, closeCache, err := newConfigCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	registry := storage.NewRegistry(storage.Open, web.InitTenant, collector)
	defer func() {
		if err := registry.Close(); err != nil {
			logger.Warn("storage_event", "event", "close_failed", "error", err)
		}
	}()

	csrfKey, err := cfg.CSRFKey()
	if err != nil {
		return err
	}
	srv := web.NewServer(registry, configCache, cfg, collector, web.Options{
		CSRFKey:            csrfKey,
		SecureCookies:      cfg.Server.SecureCookies,
		TrustedOrigins:     cfg.Server.TrustedOrigins,
		RateLimitPerSecond: cfg.Server.RateLimitPerSecond,
		SessionTTL:         cfg.SessionTTL(),
	})

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_event", "event", "listening", "addr", addr, "version", Version,
			"schema", storage.LatestSchemaVersion(), "users", len(cfg.Users))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server_event", "event", "shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newConfigCache picks Redis when an address is configured, otherwise an
// in-process cache. The returned func releases the cache.
func newConfigCache(ctx context.Context, c *config.Config) (cache.ConfigCache, func(), error) {
	if c.Cache.RedisAddr == "" {
		logger.Info("cache_event", "event", "backend", "kind", "memory", "ttl", c.CacheTTL())
		return cache.NewMemory(c.CacheTTL()), func() {}, nil
	}
	r, err := cache.NewRedis(ctx, c.Cache.RedisAddr, c.Cache.RedisPassword, c.Cache.RedisDB, c.CacheTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis cache: %w", err)
	}
	logger.Info("cache_event", "event", "backend", "kind", "redis", "addr", c.Cache.RedisAddr, "ttl", c.CacheTTL())
	return r, func() {
		if err := r.Close(); err != nil {
			logger.Warn("cache_event", "event", "close_failed", "error", err)
		}
	}, nil
}
