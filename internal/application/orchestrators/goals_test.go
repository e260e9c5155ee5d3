package orchestrators

import (
	"context"
	"errors"
	"testing"

	"trainingpanel/internal/domain/goal"
)

// TestExecuteSetGoal tests the current-week upsert.
func TestExecuteSetGoal(t *testing.T) {
	store := newMemGoalStore()
	ctx := context.Background()
	deps := SetGoalDeps{Goals: store, Now: fixedNow}

	g, err := ExecuteSetGoal(ctx, SetGoalInput{Activity: "Pushups", Value: 100}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.WeekKey != fixedWeekKey {
		t.Errorf("WeekKey = %q, want %q", g.WeekKey, fixedWeekKey)
	}
	if _, err := ExecuteSetGoal(ctx, SetGoalInput{Activity: "Pushups", Value: 150}, deps); err != nil {
		t.Fatalf("second set: %v", err)
	}
	if got := store.goals[[2]string{fixedWeekKey, "Pushups"}]; got != 150 {
		t.Errorf("goal = %v, want 150", got)
	}
	if _, err := ExecuteSetGoal(ctx, SetGoalInput{Activity: "Pushups", Value: -1}, deps); !errors.Is(err, goal.ErrNegativeValue) {
		t.Errorf("negative err = %v, want ErrNegativeValue", err)
	}
}

// TestExecuteSaveWeeklyGoals writes valid goals and counts failures.
func TestExecuteSaveWeeklyGoals(t *testing.T) {
	store := newMemGoalStore()
	res, err := ExecuteSaveWeeklyGoals(context.Background(), goal.Targets{
		"Pushups": 100,
		"Coffee":  7,
		"Sweets":  -3,
	}, SetGoalDeps{Goals: store, Now: fixedNow})
	if err == nil {
		t.Error("expected joined error for the negative goal")
	}
	if res.Saved != 2 || res.Failed != 1 || res.WeekKey != fixedWeekKey {
		t.Errorf("res = %+v", res)
	}
	if len(store.goals) != 2 {
		t.Errorf("goals = %v", store.goals)
	}
}

// TestExecuteSaveWeeklyGoals_SQL verifies the upsert against SQLite.
func TestExecuteSaveWeeklyGoals_SQL(t *testing.T) {
	ts := openTenant(t)
	ctx := context.Background()
	deps := SetGoalDeps{Goals: ts.goals, Now: fixedNow}
	for _, v := range []float64{50, 80} {
		if _, err := ExecuteSaveWeeklyGoals(ctx, goal.Targets{"Pushups": v}, deps); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	goals, err := ts.goals.ListByWeek(ctx, fixedWeekKey)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 1 || goals[0].Value != 80 {
		t.Errorf("goals = %+v, want one row with 80", goals)
	}
}
