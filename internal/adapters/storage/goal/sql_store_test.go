package goal

import (
	"context"
	"testing"

	"trainingpanel/internal/adapters/storage/storagetest"
	domain "trainingpanel/internal/domain/goal"
)

// TestSQLStore_Upsert verifies goals are upserted, not duplicated.
func TestSQLStore_Upsert(t *testing.T) {
	store := NewSQLStore(storagetest.OpenDB(t))
	ctx := context.Background()

	for _, v := range []float64{100, 150, 150} {
		if err := store.Upsert(ctx, domain.Goal{WeekKey: "2026-42", Activity: "Pushups", Value: v}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	goals, err := store.ListByWeek(ctx, "2026-42")
	if err != nil {
		t.Fatalf("ListByWeek: %v", err)
	}
	if len(goals) != 1 || goals[0].Value != 150 {
		t.Errorf("goals = %+v, want single row with 150", goals)
	}
}

// TestSQLStore_SumForWeeks verifies the historical goal sum.
func TestSQLStore_SumForWeeks(t *testing.T) {
	store := NewSQLStore(storagetest.OpenDB(t))
	ctx := context.Background()

	store.Upsert(ctx, domain.Goal{WeekKey: "2026-40", Activity: "Pushups", Value: 100})
	store.Upsert(ctx, domain.Goal{WeekKey: "2026-41", Activity: "Pushups", Value: 120})
	store.Upsert(ctx, domain.Goal{WeekKey: "2026-42", Activity: "Pushups", Value: 150})
	store.Upsert(ctx, domain.Goal{WeekKey: "2026-42", Activity: "Squats", Value: 50})
	store.Upsert(ctx, domain.Goal{WeekKey: "2026-39", Activity: "Pushups", Value: 999})

	sum, err := store.SumForWeeks(ctx, "Pushups", []string{"2026-40", "2026-41", "2026-42"})
	if err != nil {
		t.Fatalf("SumForWeeks: %v", err)
	}
	if sum != 370 {
		t.Errorf("sum = %v, want 370", sum)
	}
	if sum, _ := store.SumForWeeks(ctx, "Plank", []string{"2026-42"}); sum != 0 {
		t.Errorf("missing activity sum = %v, want 0", sum)
	}
	if sum, _ := store.SumForWeeks(ctx, "Pushups", nil); sum != 0 {
		t.Errorf("no weeks sum = %v, want 0", sum)
	}
}

// TestSQLStore_DeleteByActivity verifies all weeks are removed for one activity only.
func TestSQLStore_DeleteByActivity(t *testing.T) {
	store := NewSQLStore(storagetest.OpenDB(t))
	ctx := context.Background()

	store.Upsert(ctx, domain.Goal{WeekKey: "2026-41", Activity: "Coffee", Value: 7})
	store.Upsert(ctx, domain.Goal{WeekKey: "2026-42", Activity: "Coffee", Value: 5})
	store.Upsert(ctx, domain.Goal{WeekKey: "2026-42", Activity: "Pushups", Value: 100})

	n, err := store.DeleteByActivity(ctx, "Coffee")
	if err != nil {
		t.Fatalf("DeleteByActivity: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	goals, _ := store.ListByWeek(ctx, "2026-42")
	if len(goals) != 1 || goals[0].Activity != "Pushups" {
		t.Errorf("remaining = %+v", goals)
	}
}
