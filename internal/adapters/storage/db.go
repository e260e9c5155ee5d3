package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// Dialect identifies the SQL flavour of a tenant endpoint.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// sqlitePragmas are appended to every SQLite DSN.
const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"

// ErrEmptyEndpoint is returned when a user has no storage endpoint configured.
var ErrEmptyEndpoint = errors.New("storage endpoint is empty")

// Endpoint is a parsed storage endpoint URL.
type Endpoint struct {
	Driver  string // database/sql driver name
	DSN     string
	Dialect Dialect
	Memory  bool // in-memory SQLite; limited to one connection
}

// ParseEndpoint maps a storage URL onto a driver.
// postgres:// and postgresql:// use pgx; sqlite:, file: and bare paths use SQLite.
// PRE: none
// POST: Returns ErrEmptyEndpoint for a blank URL
func ParseEndpoint(url string) (Endpoint, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Endpoint{}, ErrEmptyEndpoint
	}
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return Endpoint{Driver: "pgx", DSN: url, Dialect: DialectPostgres}, nil
	}

	path := url
	if strings.HasPrefix(path, "sqlite:") {
		path = strings.TrimPrefix(path, "sqlite:")
		path = strings.TrimPrefix(path, "//")
	}
	if path == "" {
		return Endpoint{}, ErrEmptyEndpoint
	}
	memory := strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return Endpoint{
		Driver:  "sqlite",
		DSN:     path + sep + sqlitePragmas,
		Dialect: DialectSQLite,
		Memory:  memory,
	}, nil
}

// Open connects to a storage endpoint and verifies it with a ping.
// PRE: url is a postgres URL, a sqlite: URL, a file: URI or a path
// POST: Returns an open *sql.DB or an error wrapping ErrUnavailable
func Open(ctx context.Context, url string) (*sql.DB, Dialect, error) {
	ep, err := ParseEndpoint(url)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(ep.Driver, ep.DSN)
	if err != nil {
		return nil, "", fmt.Errorf("%w: open %s: %v", ErrUnavailable, ep.Dialect, err)
	}
	if ep.Memory {
		// each new connection to :memory: is a fresh database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("%w: ping %s: %v", ErrUnavailable, ep.Dialect, err)
	}
	return db, ep.Dialect, nil
}

// newProvider builds a goose provider over the embedded migrations for dialect.
func newProvider(db *sql.DB, dialect Dialect) (*goose.Provider, error) {
	gooseDialect := goose.DialectSQLite3
	if dialect == DialectPostgres {
		gooseDialect = goose.DialectPostgres
	}
	sub, err := fs.Sub(migrationFS, "migrations/"+string(dialect))
	if err != nil {
		return nil, fmt.Errorf("migrations sub-fs: %w", err)
	}
	provider, err := goose.NewProvider(gooseDialect, db, sub)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies all pending migrations for the dialect.
// PRE: db is a valid database connection
// POST: log_entry, goal, activity_config and run tables exist
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		if r.Source == nil {
			continue
		}
		slog.Info("storage_event", "event", "migration_applied", "dialect", dialect, "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func SchemaVersion(ctx context.Context, db *sql.DB, dialect Dialect) (int64, error) {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}

// LatestSchemaVersion returns the highest embedded migration version.
// Both dialects carry the same version sequence.
func LatestSchemaVersion() int64 {
	entries, err := fs.ReadDir(migrationFS, "migrations/"+string(DialectSQLite))
	if err != nil {
		return 0
	}
	var latest int64
	for _, e := range entries {
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(prefix, 10, 64)
		if err == nil && v > latest {
			latest = v
		}
	}
	return latest
}
