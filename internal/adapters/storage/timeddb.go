package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"trainingpanel/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Statements are written with ? placeholders; TimedDB rebinds them for
// PostgreSQL.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

var slowQueryMs atomic.Int64

func init() {
	slowQueryMs.Store(DefaultSlowQueryMs)
}

// SetSlowQueryThreshold changes the slow-query warning threshold for all TimedDBs.
// Non-positive values are ignored.
func SetSlowQueryThreshold(ms int) {
	if ms > 0 {
		slowQueryMs.Store(int64(ms))
	}
}

// TimedDB wraps a tenant *sql.DB to rebind placeholders, log slow queries
// and record timings to a collector.
type TimedDB struct {
	db        *sql.DB
	dialect   Dialect
	tenant    string
	collector *perf.Collector
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and records to collector (may be nil)
func NewTimedDB(db *sql.DB, dialect Dialect, tenant string, collector *perf.Collector) *TimedDB {
	return &TimedDB{
		db:        db,
		dialect:   dialect,
		tenant:    tenant,
		collector: collector,
	}
}

// RawDB returns the underlying *sql.DB (needed for migrations).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// Dialect returns the SQL flavour of the wrapped connection.
func (t *TimedDB) Dialect() Dialect {
	return t.dialect
}

// logQuery logs and optionally records a query timing.
func (t *TimedDB) logQuery(query string, start time.Time, err error) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	label := statementLabel(query)

	if durationMs >= float64(slowQueryMs.Load()) {
		slog.Warn("slow_query", "statement", label, "tenant", t.tenant, "duration_ms", durationMs)
	} else {
		slog.Debug("query", "statement", label, "tenant", t.tenant, "duration_ms", durationMs)
	}
	if err != nil && err != sql.ErrNoRows {
		slog.Debug("query_error", "statement", label, "tenant", t.tenant, "error", err)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       label,
			Tenant:     t.tenant,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// ExecContext rebinds and executes a statement with timing.
// PRE: ctx is valid, query is non-empty
// POST: statement executed, timing recorded to collector
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, Rebind(t.dialect, query), args...)
	t.logQuery(query, start, err)
	return result, err
}

// QueryContext rebinds and runs a query with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing recorded to collector
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, Rebind(t.dialect, query), args...)
	t.logQuery(query, start, err)
	return rows, err
}

// QueryRowContext rebinds and runs a single-row query with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing recorded to collector
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, Rebind(t.dialect, query), args...)
	t.logQuery(query, start, row.Err())
	return row
}

// PingContext verifies the connection is alive.
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// Rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
// Question marks inside single-quoted literals are left alone.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// statementLabel reduces a statement to "VERB table" for timing aggregation.
func statementLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "empty"
	}
	verb := strings.ToUpper(fields[0])
	var keyword string
	switch verb {
	case "SELECT", "DELETE":
		keyword = "FROM"
	case "INSERT":
		keyword = "INTO"
	case "UPDATE":
		return verb + " " + tableName(fields, 1)
	default:
		return verb
	}
	for i, f := range fields {
		if strings.EqualFold(f, keyword) {
			return verb + " " + tableName(fields, i+1)
		}
	}
	return verb
}

func tableName(fields []string, i int) string {
	if i >= len(fields) {
		return "?"
	}
	name := fields[i]
	if j := strings.IndexAny(name, "(,;"); j >= 0 {
		name = name[:j]
	}
	return strings.ToLower(name)
}

// Placeholders returns n comma-separated ? placeholders for an IN clause.
// PRE: n > 0
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
