package orchestrators

import (
	"context"
	"errors"
	"testing"

	"trainingpanel/internal/domain/activity"
	"trainingpanel/internal/domain/goal"
	"trainingpanel/internal/domain/logentry"
)

// TestExecuteAddActivity_Duplicate verifies a taken name returns false, not an error.
func TestExecuteAddActivity_Duplicate(t *testing.T) {
	ts := openTenant(t)
	inv := &countingInvalidator{}
	deps := AddActivityDeps{Activities: ts.activities, Cache: inv}
	ctx := context.Background()

	created, err := ExecuteAddActivity(ctx, AddActivityInput{Name: " Yoga ", Category: "Recovery"}, deps)
	if err != nil || !created {
		t.Fatalf("first add = %v, %v", created, err)
	}
	created, err = ExecuteAddActivity(ctx, AddActivityInput{Name: "Yoga", Category: "Workouts"}, deps)
	if err != nil {
		t.Fatalf("duplicate add returned error: %v", err)
	}
	if created {
		t.Error("duplicate add reported created")
	}
	if inv.calls != 1 {
		t.Errorf("invalidations = %d, want 1", inv.calls)
	}
	c, err := ts.activities.Get(ctx, "Yoga")
	if err != nil || c.Category != "Recovery" {
		t.Errorf("stored = %+v, %v", c, err)
	}
}

// TestExecuteAddActivity_Invalid verifies validation runs before the store.
func TestExecuteAddActivity_Invalid(t *testing.T) {
	inv := &countingInvalidator{}
	_, err := ExecuteAddActivity(context.Background(), AddActivityInput{Name: "Yoga"},
		AddActivityDeps{Activities: openTenant(t).activities, Cache: inv})
	if !errors.Is(err, activity.ErrEmptyCategory) {
		t.Errorf("err = %v, want ErrEmptyCategory", err)
	}
	if inv.calls != 0 {
		t.Error("failed add must not invalidate")
	}
}

// TestExecuteDeleteActivity_ConfigOnly verifies goals and logs survive.
func TestExecuteDeleteActivity_ConfigOnly(t *testing.T) {
	ts := openTenant(t)
	ctx := context.Background()
	_ = ts.activities.Insert(ctx, activity.Config{Name: "Coffee", Category: "Bad Habits", IsBadHabit: true})
	_ = ts.goals.Upsert(ctx, goal.Goal{WeekKey: fixedWeekKey, Activity: "Coffee", Value: 7})
	_, _ = ts.log.Add(ctx, logentry.LogEntry{Date: fixedDate, Activity: "Coffee", Amount: 1})

	inv := &countingInvalidator{}
	deleted, err := ExecuteDeleteActivity(ctx, "Coffee", DeleteActivityDeps{Activities: ts.activities, Cache: inv})
	if err != nil || !deleted {
		t.Fatalf("delete = %v, %v", deleted, err)
	}
	if inv.calls != 1 {
		t.Errorf("invalidations = %d, want 1", inv.calls)
	}
	goals, _ := ts.goals.ListByWeek(ctx, fixedWeekKey)
	if len(goals) != 1 {
		t.Errorf("goals = %+v, want Coffee goal kept", goals)
	}
	if n, _ := ts.log.CountByActivity(ctx, "Coffee"); n != 1 {
		t.Errorf("log entries = %d, want 1", n)
	}

	deleted, err = ExecuteDeleteActivity(ctx, "Coffee", DeleteActivityDeps{Activities: ts.activities, Cache: inv})
	if err != nil || deleted {
		t.Errorf("second delete = %v, %v; want false, nil", deleted, err)
	}
}

// TestExecuteRenameActivity_DoesNotCascade verifies history keeps the old name.
func TestExecuteRenameActivity_DoesNotCascade(t *testing.T) {
	ts := openTenant(t)
	ctx := context.Background()
	_ = ts.activities.Insert(ctx, activity.Config{Name: "Pushups", Category: "Workouts"})
	_ = ts.activities.Insert(ctx, activity.Config{Name: "Pullups", Category: "Workouts"})
	_, _ = ts.log.Add(ctx, logentry.LogEntry{Date: fixedDate, Activity: "Pushups", Amount: 20})
	_ = ts.goals.Upsert(ctx, goal.Goal{WeekKey: fixedWeekKey, Activity: "Pushups", Value: 100})

	inv := &countingInvalidator{}
	deps := RenameDeps{Activities: ts.activities, Cache: inv}
	renamed, err := ExecuteRenameActivity(ctx, RenameInput{Old: "Pushups", New: "Push-ups"}, deps)
	if err != nil || !renamed {
		t.Fatalf("rename = %v, %v", renamed, err)
	}
	if n, _ := ts.log.CountByActivity(ctx, "Pushups"); n != 1 {
		t.Errorf("log entries under old name = %d, want 1", n)
	}
	goals, _ := ts.goals.ListByWeek(ctx, fixedWeekKey)
	if len(goals) != 1 || goals[0].Activity != "Pushups" {
		t.Errorf("goals = %+v, want old name kept", goals)
	}

	if _, err := ExecuteRenameActivity(ctx, RenameInput{Old: "Push-ups", New: "Pullups"}, deps); !errors.Is(err, ErrNameTaken) {
		t.Errorf("rename onto existing err = %v, want ErrNameTaken", err)
	}
	if _, err := ExecuteRenameActivity(ctx, RenameInput{Old: "Pullups", New: "Pullups"}, deps); !errors.Is(err, activity.ErrSameName) {
		t.Errorf("same-name err = %v, want ErrSameName", err)
	}
	if inv.calls != 1 {
		t.Errorf("invalidations = %d, want 1", inv.calls)
	}
}

// TestExecuteRenameCategory moves every activity in the category.
func TestExecuteRenameCategory(t *testing.T) {
	ts := openTenant(t)
	ctx := context.Background()
	_ = ts.activities.Insert(ctx, activity.Config{Name: "Pushups", Category: "Workouts"})
	_ = ts.activities.Insert(ctx, activity.Config{Name: "Pullups", Category: "Workouts"})
	_ = ts.activities.Insert(ctx, activity.Config{Name: "Coffee", Category: "Bad Habits", IsBadHabit: true})

	inv := &countingInvalidator{}
	n, err := ExecuteRenameCategory(ctx, RenameInput{Old: "Workouts", New: "Strength"},
		RenameDeps{Activities: ts.activities, Cache: inv})
	if err != nil || n != 2 {
		t.Fatalf("rename category = %d, %v; want 2", n, err)
	}
	c, _ := ts.activities.Get(ctx, "Pullups")
	if c.Category != "Strength" {
		t.Errorf("Pullups category = %q", c.Category)
	}
	if inv.calls != 1 {
		t.Errorf("invalidations = %d, want 1", inv.calls)
	}
}

// TestExecuteSeedActivities seeds once and never again.
func TestExecuteSeedActivities(t *testing.T) {
	ts := openTenant(t)
	ctx := context.Background()
	deps := SeedActivitiesDeps{Activities: ts.activities}

	n, err := ExecuteSeedActivities(ctx, deps)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(activity.Defaults) {
		t.Errorf("seeded %d, want %d", n, len(activity.Defaults))
	}
	n, err = ExecuteSeedActivities(ctx, deps)
	if err != nil || n != 0 {
		t.Errorf("second seed = %d, %v; want 0", n, err)
	}
}

// TestExecuteSeedActivities_SkipsNonEmpty verifies user config is never topped up.
func TestExecuteSeedActivities_SkipsNonEmpty(t *testing.T) {
	ts := openTenant(t)
	ctx := context.Background()
	_ = ts.activities.Insert(ctx, activity.Config{Name: "Yoga", Category: "Recovery"})

	n, err := ExecuteSeedActivities(ctx, SeedActivitiesDeps{Activities: ts.activities})
	if err != nil || n != 0 {
		t.Fatalf("seed = %d, %v; want 0", n, err)
	}
	if count, _ := ts.activities.Count(ctx); count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
