package projections

import (
	"context"
	"fmt"
	"time"

	"trainingpanel/internal/domain/planner"
)

// PlannerQuery carries input for the planner projection.
type PlannerQuery struct {
	Now time.Time // optional: if zero, time.Now() is used
}

// PlannerResult is the snapshot the planner editor diffs against.
type PlannerResult struct {
	WeekKey string        `json:"week_key"`
	Rows    []planner.Row `json:"rows"`
}

// PlannerDeps holds dependencies for the planner projection.
type PlannerDeps struct {
	Config ConfigLister
	Goals  GoalReader
}

// QueryPlanner joins every activity config row with its current-week goal.
// Reads storage directly; the editor posts these rows back with its diff.
// POST: Rows follow config order (category, then name); missing goals are 0
func QueryPlanner(ctx context.Context, query PlannerQuery, deps PlannerDeps) (PlannerResult, error) {
	today := query.Now
	if today.IsZero() {
		today = time.Now()
	}
	cfg, err := deps.Config.List(ctx)
	if err != nil {
		return PlannerResult{}, fmt.Errorf("planner config: %w", err)
	}
	goals, err := QueryCurrentGoals(ctx, CurrentGoalsQuery{Now: today}, CurrentGoalsDeps{Goals: deps.Goals})
	if err != nil {
		return PlannerResult{}, err
	}

	rows := make([]planner.Row, 0, len(cfg))
	for _, c := range cfg {
		rows = append(rows, planner.Row{
			Activity:   c.Name,
			Category:   c.Category,
			IsBadHabit: c.IsBadHabit,
			WeeklyGoal: goals.Goals.Get(c.Name),
		})
	}
	return PlannerResult{WeekKey: goals.WeekKey, Rows: rows}, nil
}
