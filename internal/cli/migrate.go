package cli

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	web "trainingpanel/internal/adapters/http"
	"trainingpanel/internal/adapters/storage"
	"trainingpanel/internal/config"
)

// migrateParallelism bounds concurrent endpoint migrations.
const migrateParallelism = 4

var migrateUser string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate and seed every configured database",
	Long: `Migrate opens each configured user's database, applies pending schema
migrations and seeds the default activities into an empty config. Users
sharing a database URL are migrated once.

Examples:
  trainingpanel migrate
  trainingpanel migrate --user alice`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateUser, "user", "u", "", "only migrate this user's database")
}

// migrateTarget is one distinct endpoint and the first user bound to it.
type migrateTarget struct {
	user     string
	endpoint string
}

// migrateResult is the outcome of one endpoint migration.
type migrateResult struct {
	user    string
	dialect storage.Dialect
	version int64
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	targets, err := migrateTargets(cfg, migrateUser)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		results []migrateResult
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(migrateParallelism)
	for _, target := range targets {
		g.Go(func() error {
			res, err := migrateEndpoint(ctx, target)
			if err != nil {
				return fmt.Errorf("user %s: %w", target.user, err)
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].user < results[j].user })
	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "%-20s %-9s schema %d\n", r.user, r.dialect, r.version)
	}
	return nil
}

// migrateTargets lists the distinct endpoints to migrate, optionally limited
// to one user.
func migrateTargets(c *config.Config, only string) ([]migrateTarget, error) {
	if only != "" {
		acct, ok := c.Lookup(only)
		if !ok {
			return nil, fmt.Errorf("unknown user %q", only)
		}
		return []migrateTarget{{user: acct.Username, endpoint: acct.Endpoint}}, nil
	}
	seen := make(map[string]bool)
	var targets []migrateTarget
	for _, name := range c.Usernames() {
		acct, _ := c.Lookup(name)
		if seen[acct.Endpoint] {
			continue
		}
		seen[acct.Endpoint] = true
		targets = append(targets, migrateTarget{user: name, endpoint: acct.Endpoint})
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no users configured")
	}
	return targets, nil
}

func migrateEndpoint(ctx context.Context, target migrateTarget) (migrateResult, error) {
	db, dialect, err := storage.Open(ctx, target.endpoint)
	if err != nil {
		return migrateResult{}, err
	}
	defer db.Close()

	tenant := &storage.Tenant{
		Name:     target.user,
		Endpoint: target.endpoint,
		DB:       storage.NewTimedDB(db, dialect, target.user, nil),
	}
	if err := web.InitTenant(ctx, tenant); err != nil {
		return migrateResult{}, err
	}
	version, err := storage.SchemaVersion(ctx, db, dialect)
	if err != nil {
		return migrateResult{}, fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("storage_event", "event", "tenant_migrated", "tenant", target.user, "dialect", dialect, "version", version)
	return migrateResult{user: target.user, dialect: dialect, version: version}, nil
}
