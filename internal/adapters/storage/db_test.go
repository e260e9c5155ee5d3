package storage

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, dialect, err := Open(context.Background(), "sqlite::memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if dialect != DialectSQLite {
		t.Fatalf("dialect = %q, want sqlite", dialect)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after all migrations.
var expectedTables = []string{
	"activity_config",
	"goal",
	"goose_db_version",
	"log_entry",
	"run",
}

// TestParseEndpoint tests driver selection per URL form.
func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		url     string
		driver  string
		dialect Dialect
		dsn     string
		memory  bool
	}{
		{"postgres://u:p@localhost:5432/ania", "pgx", DialectPostgres, "postgres://u:p@localhost:5432/ania", false},
		{"postgresql://localhost/tomek", "pgx", DialectPostgres, "postgresql://localhost/tomek", false},
		{"sqlite:data/ania.db", "sqlite", DialectSQLite, "data/ania.db?" + sqlitePragmas, false},
		{"sqlite:///var/lib/tp/ania.db", "sqlite", DialectSQLite, "/var/lib/tp/ania.db?" + sqlitePragmas, false},
		{"file:ania.db?cache=shared", "sqlite", DialectSQLite, "file:ania.db?cache=shared&" + sqlitePragmas, false},
		{"./ania.db", "sqlite", DialectSQLite, "./ania.db?" + sqlitePragmas, false},
		{"sqlite::memory:", "sqlite", DialectSQLite, ":memory:?" + sqlitePragmas, true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			ep, err := ParseEndpoint(tt.url)
			if err != nil {
				t.Fatalf("ParseEndpoint: %v", err)
			}
			if ep.Driver != tt.driver || ep.Dialect != tt.dialect || ep.DSN != tt.dsn || ep.Memory != tt.memory {
				t.Errorf("ParseEndpoint(%q) = %+v", tt.url, ep)
			}
		})
	}
}

// TestParseEndpoint_Empty tests that blank endpoints are rejected.
func TestParseEndpoint_Empty(t *testing.T) {
	for _, url := range []string{"", "   ", "sqlite:"} {
		if _, err := ParseEndpoint(url); !errors.Is(err, ErrEmptyEndpoint) {
			t.Errorf("ParseEndpoint(%q) err = %v, want ErrEmptyEndpoint", url, err)
		}
	}
}

// TestMigrate_Fresh verifies all migrations apply cleanly to an empty database.
func TestMigrate_Fresh(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := Migrate(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("Migrate failed on fresh db: %v", err)
	}

	version, err := SchemaVersion(ctx, db, DialectSQLite)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}

	tables := getTableNames(t, db)
	if len(tables) != len(expectedTables) {
		t.Fatalf("got %d tables, want %d\ngot:  %v\nwant: %v", len(tables), len(expectedTables), tables, expectedTables)
	}
	for i, want := range expectedTables {
		if tables[i] != want {
			t.Errorf("table[%d] = %q, want %q", i, tables[i], want)
		}
	}
}

func TestLatestSchemaVersion(t *testing.T) {
	if got := LatestSchemaVersion(); got != 1 {
		t.Errorf("LatestSchemaVersion() = %d, want 1", got)
	}
}

// TestMigrate_Idempotent verifies that running Migrate twice keeps version and data.
func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := Migrate(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("first Migrate failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO log_entry (date, activity, amount) VALUES ('2026-10-16', 'Pushups', 20)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	version1, _ := SchemaVersion(ctx, db, DialectSQLite)

	if err := Migrate(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
	version2, _ := SchemaVersion(ctx, db, DialectSQLite)
	if version1 != version2 {
		t.Errorf("version changed after idempotent run: %d -> %d", version1, version2)
	}

	var amount float64
	if err := db.QueryRow(`SELECT amount FROM log_entry WHERE activity = 'Pushups'`).Scan(&amount); err != nil {
		t.Fatalf("log data lost after migration: %v", err)
	}
	if amount != 20 {
		t.Errorf("amount = %v, want 20", amount)
	}
}

// TestMigrate_UniqueViolation verifies the activity_config primary key maps to IsUniqueViolation.
func TestMigrate_UniqueViolation(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(context.Background(), db, DialectSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO activity_config (name, category) VALUES ('Coffee', 'Bad Habits')`); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := db.Exec(`INSERT INTO activity_config (name, category) VALUES ('Coffee', 'Drinks')`)
	if err == nil {
		t.Fatal("expected constraint error")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
	if IsUniqueViolation(errors.New("boom")) || IsUniqueViolation(nil) {
		t.Error("plain errors must not be unique violations")
	}
}

// TestOpen_Unavailable verifies connection failures wrap ErrUnavailable.
func TestOpen_Unavailable(t *testing.T) {
	_, _, err := Open(context.Background(), "/nonexistent-dir/deeper/ania.db")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
