package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainingpanel/internal/domain/goal"
	"trainingpanel/internal/domain/period"
)

// GoalWriter upserts weekly goals.
type GoalWriter interface {
	Upsert(ctx context.Context, g goal.Goal) error
}

// SetGoalInput carries input for the set-goal orchestrator.
type SetGoalInput struct {
	Activity string
	Value    float64
}

// SetGoalDeps holds dependencies for SetGoal.
type SetGoalDeps struct {
	Goals GoalWriter
	Now   func() time.Time
}

// ExecuteSetGoal upserts the current week's goal for one activity.
// PRE: Value >= 0
// POST: goal(WeekKey(today), Activity) == Value
func ExecuteSetGoal(ctx context.Context, input SetGoalInput, deps SetGoalDeps) (goal.Goal, error) {
	g := goal.Goal{
		WeekKey:  period.WeekKey(now(deps.Now)),
		Activity: strings.TrimSpace(input.Activity),
		Value:    input.Value,
	}
	if err := g.Validate(); err != nil {
		return goal.Goal{}, err
	}
	if err := deps.Goals.Upsert(ctx, g); err != nil {
		return goal.Goal{}, fmt.Errorf("set goal: %w", err)
	}
	slog.Info("goal_event", "event", "goal_set", "week", g.WeekKey, "activity", g.Activity, "value", g.Value)
	return g, nil
}

// SaveWeeklyGoalsResult counts the goals written.
type SaveWeeklyGoalsResult struct {
	WeekKey string `json:"week_key"`
	Saved   int    `json:"saved"`
	Failed  int    `json:"failed"`
}

// ExecuteSaveWeeklyGoals upserts a set of current-week goals at once.
// POST: Each valid goal is written independently; failures are joined
func ExecuteSaveWeeklyGoals(ctx context.Context, targets goal.Targets, deps SetGoalDeps) (SaveWeeklyGoalsResult, error) {
	res := SaveWeeklyGoalsResult{WeekKey: period.WeekKey(now(deps.Now))}
	var errs []error
	for name, value := range targets {
		g := goal.Goal{WeekKey: res.WeekKey, Activity: strings.TrimSpace(name), Value: value}
		if err := g.Validate(); err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if err := deps.Goals.Upsert(ctx, g); err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		res.Saved++
	}
	slog.Info("goal_event", "event", "weekly_goals_saved", "week", res.WeekKey, "saved", res.Saved, "failed", res.Failed)
	return res, errors.Join(errs...)
}
