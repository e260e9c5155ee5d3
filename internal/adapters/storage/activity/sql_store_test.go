package activity

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"trainingpanel/internal/adapters/storage"
	"trainingpanel/internal/adapters/storage/storagetest"
	domain "trainingpanel/internal/domain/activity"
)

// TestSQLStore_InsertDuplicate verifies a duplicate name is a unique violation.
func TestSQLStore_InsertDuplicate(t *testing.T) {
	store := NewSQLStore(storagetest.OpenDB(t))
	ctx := context.Background()

	if err := store.Insert(ctx, domain.Config{Name: "Coffee", Category: "Bad Habits", IsBadHabit: true}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err := store.Insert(ctx, domain.Config{Name: "Coffee", Category: "Drinks"})
	if !storage.IsUniqueViolation(err) {
		t.Fatalf("err = %v, want unique violation", err)
	}

	c, err := store.Get(ctx, "Coffee")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Category != "Bad Habits" || !c.IsBadHabit {
		t.Errorf("Get = %+v, original row must be untouched", c)
	}
	if _, err := store.Get(ctx, "Tea"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Get missing err = %v, want sql.ErrNoRows", err)
	}
}

// TestSQLStore_InsertIgnoreAndUpsert verifies seeding and planner upserts.
func TestSQLStore_InsertIgnoreAndUpsert(t *testing.T) {
	store := NewSQLStore(storagetest.OpenDB(t))
	ctx := context.Background()

	inserted, err := store.InsertIgnore(ctx, domain.Config{Name: "Pushups", Category: "Strength"})
	if err != nil || !inserted {
		t.Fatalf("InsertIgnore = %v, %v; want true", inserted, err)
	}
	inserted, err = store.InsertIgnore(ctx, domain.Config{Name: "Pushups", Category: "Other"})
	if err != nil || inserted {
		t.Fatalf("second InsertIgnore = %v, %v; want false", inserted, err)
	}

	if err := store.Upsert(ctx, domain.Config{Name: "Pushups", Category: "Calisthenics", IsBadHabit: false}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Upsert(ctx, domain.Config{Name: "Yoga", Category: "Recovery"}); err != nil {
		t.Fatalf("Upsert new: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Category != "Calisthenics" || list[1].Name != "Yoga" {
		t.Errorf("List = %+v", list)
	}
	if n, _ := store.Count(ctx); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

// TestSQLStore_UpdateDeleteRename verifies in-place edits report missing rows.
func TestSQLStore_UpdateDeleteRename(t *testing.T) {
	store := NewSQLStore(storagetest.OpenDB(t))
	ctx := context.Background()

	store.Insert(ctx, domain.Config{Name: "Coffee", Category: "Habits"})
	store.Insert(ctx, domain.Config{Name: "Sweets", Category: "Habits"})

	if ok, err := store.Update(ctx, domain.Config{Name: "Coffee", Category: "Habits", IsBadHabit: true}); err != nil || !ok {
		t.Fatalf("Update = %v, %v", ok, err)
	}
	if ok, _ := store.Update(ctx, domain.Config{Name: "Tea", Category: "Habits"}); ok {
		t.Error("Update of missing activity should report false")
	}

	if ok, err := store.Rename(ctx, "Coffee", "Espresso"); err != nil || !ok {
		t.Fatalf("Rename = %v, %v", ok, err)
	}
	if _, err := store.Rename(ctx, "Espresso", "Sweets"); !storage.IsUniqueViolation(err) {
		t.Errorf("Rename onto taken name err = %v, want unique violation", err)
	}

	n, err := store.RenameCategory(ctx, "Habits", "Bad Habits")
	if err != nil || n != 2 {
		t.Fatalf("RenameCategory = %d, %v; want 2", n, err)
	}

	if ok, _ := store.Delete(ctx, "Sweets"); !ok {
		t.Error("Delete existing should report true")
	}
	if ok, _ := store.Delete(ctx, "Sweets"); ok {
		t.Error("Delete missing should report false")
	}
	c, err := store.Get(ctx, "Espresso")
	if err != nil || c.Category != "Bad Habits" || !c.IsBadHabit {
		t.Errorf("Get = %+v, %v", c, err)
	}
}
