// Package storagetest opens migrated in-memory tenant databases for tests.
package storagetest

import (
	"context"
	"testing"

	"trainingpanel/internal/adapters/storage"
)

// OpenDB returns a migrated in-memory SQLite tenant database.
// PRE: called from a test
// POST: database is closed when the test finishes
func OpenDB(t testing.TB) *storage.TimedDB {
	t.Helper()
	ctx := context.Background()
	db, dialect, err := storage.Open(ctx, "sqlite::memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(ctx, db, dialect); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return storage.NewTimedDB(db, dialect, t.Name(), nil)
}
