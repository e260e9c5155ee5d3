package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trainingpanel/internal/domain/activity"
	"trainingpanel/internal/domain/goal"
	"trainingpanel/internal/domain/period"
	"trainingpanel/internal/domain/planner"
)

// PlannerConfigStore is the activity config surface used by reconciliation.
type PlannerConfigStore interface {
	Get(ctx context.Context, name string) (activity.Config, error)
	Upsert(ctx context.Context, c activity.Config) error
	Update(ctx context.Context, c activity.Config) (bool, error)
	Delete(ctx context.Context, name string) (bool, error)
}

// PlannerGoalStore is the goal surface used by reconciliation.
type PlannerGoalStore interface {
	Upsert(ctx context.Context, g goal.Goal) error
	DeleteByActivity(ctx context.Context, activity string) (int64, error)
}

// ReconcilePlannerInput carries a resolved planner batch. Skipped is the
// number of editor rows dropped while resolving it.
type ReconcilePlannerInput struct {
	Request planner.Request
	Skipped int
}

// ReconcilePlannerResult counts what the batch did.
type ReconcilePlannerResult struct {
	BatchID string `json:"batch_id"`
	Deleted int    `json:"deleted"`
	Edited  int    `json:"edited"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// ReconcilePlannerDeps holds dependencies for ReconcilePlanner.
type ReconcilePlannerDeps struct {
	Config     PlannerConfigStore
	Goals      PlannerGoalStore
	Cache      ConfigInvalidator
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteReconcilePlanner applies a planner batch in three phases: deletes,
// then edits, then adds, whatever order the operations arrived in.
// PRE: Request operations are keyed by activity name
// POST: Every operation is attempted; failures are joined and never undo other operations
// POST: The tenant's config cache is invalidated even when operations fail
// INVARIANT: Log entries are never touched
func ExecuteReconcilePlanner(ctx context.Context, input ReconcilePlannerInput, deps ReconcilePlannerDeps) (ReconcilePlannerResult, error) {
	res := ReconcilePlannerResult{Skipped: input.Skipped}
	if deps.GenerateID != nil {
		res.BatchID = deps.GenerateID()
	}
	weekKey := period.WeekKey(now(deps.Now))
	defer invalidateConfig(ctx, deps.Cache, "planner_batch")

	var errs []error
	for _, op := range input.Request.Phased() {
		if err := op.Validate(); err != nil {
			res.Skipped++
			continue
		}
		var err error
		switch op.Kind {
		case planner.KindDelete:
			err = reconcileDelete(ctx, op, deps)
			if err == nil {
				res.Deleted++
			}
		case planner.KindEdit:
			err = reconcileEdit(ctx, op, weekKey, deps)
			if err == nil {
				res.Edited++
			}
		case planner.KindAdd:
			n := op.New
			n.Normalize()
			if !n.Complete() {
				res.Skipped++
				continue
			}
			err = reconcileAdd(ctx, n, weekKey, deps)
			if err == nil {
				res.Added++
			}
		}
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("%s %q: %w", op.Kind, op.Name, err))
		}
	}

	slog.Info("planner_event", "event", "batch_applied", "batch_id", res.BatchID, "week", weekKey,
		"deleted", res.Deleted, "edited", res.Edited, "added", res.Added, "skipped", res.Skipped, "failed", res.Failed)
	return res, errors.Join(errs...)
}

// reconcileDelete removes the config row and every goal of the activity.
func reconcileDelete(ctx context.Context, op planner.Op, deps ReconcilePlannerDeps) error {
	if _, err := deps.Config.Delete(ctx, op.Name); err != nil {
		return err
	}
	if _, err := deps.Goals.DeleteByActivity(ctx, op.Name); err != nil {
		return err
	}
	return nil
}

// reconcileEdit updates the config row in place and/or the current-week goal.
// Fields absent from the change set keep their stored values.
func reconcileEdit(ctx context.Context, op planner.Op, weekKey string, deps ReconcilePlannerDeps) error {
	if op.Changes.ConfigChanged() {
		stored, err := deps.Config.Get(ctx, op.Name)
		if err != nil {
			return err
		}
		if op.Changes.Category != nil {
			stored.Category = *op.Changes.Category
		}
		if op.Changes.IsBadHabit != nil {
			stored.IsBadHabit = *op.Changes.IsBadHabit
		}
		stored.Normalize()
		if err := stored.Validate(); err != nil {
			return err
		}
		if _, err := deps.Config.Update(ctx, stored); err != nil {
			return err
		}
	}
	if op.Changes.WeeklyGoal != nil {
		g := goal.Goal{WeekKey: weekKey, Activity: op.Name, Value: *op.Changes.WeeklyGoal}
		if err := g.Validate(); err != nil {
			return err
		}
		if err := deps.Goals.Upsert(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// reconcileAdd upserts the config row and, for a positive goal, the
// current-week goal.
func reconcileAdd(ctx context.Context, n planner.NewActivity, weekKey string, deps ReconcilePlannerDeps) error {
	c := activity.Config{Name: n.Name, Category: n.Category, IsBadHabit: n.IsBadHabit}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := deps.Config.Upsert(ctx, c); err != nil {
		return err
	}
	if n.WeeklyGoal > 0 {
		if err := deps.Goals.Upsert(ctx, goal.Goal{WeekKey: weekKey, Activity: n.Name, Value: n.WeeklyGoal}); err != nil {
			return err
		}
	}
	return nil
}
