package projections

import (
	"context"
	"fmt"
	"time"

	"trainingpanel/internal/domain/activity"
	"trainingpanel/internal/domain/goal"
	"trainingpanel/internal/domain/logentry"
	"trainingpanel/internal/domain/period"
)

// WeeklyStateQuery carries input for the weekly state projection.
type WeeklyStateQuery struct {
	Now time.Time // optional: if zero, time.Now() is used
}

// WeeklyStateResult carries the per-activity state of the current week.
// State holds the sum for ordinary activities and the mean of the logged
// values for pace-like ones. Totals always holds the raw sums.
type WeeklyStateResult struct {
	Since  string          `json:"since"`
	State  logentry.Totals `json:"state"`
	Totals logentry.Totals `json:"totals"`
}

// WeeklyStateDeps holds dependencies for the weekly state projection.
type WeeklyStateDeps struct {
	Log LogAggregator
}

// QueryWeeklyState sums this week's log entries per activity.
// POST: Activities without entries are absent and read as 0
func QueryWeeklyState(ctx context.Context, query WeeklyStateQuery, deps WeeklyStateDeps) (WeeklyStateResult, error) {
	today := query.Now
	if today.IsZero() {
		today = time.Now()
	}
	since := period.StartDate(period.ThisWeek, today)

	aggs, err := deps.Log.AggregateSince(ctx, since)
	if err != nil {
		return WeeklyStateResult{}, fmt.Errorf("weekly state: %w", err)
	}

	res := WeeklyStateResult{
		Since:  since,
		State:  make(logentry.Totals, len(aggs)),
		Totals: make(logentry.Totals, len(aggs)),
	}
	for _, a := range aggs {
		res.Totals[a.Activity] = a.Sum
		if activity.IsPaceLike(a.Activity) && a.Count > 0 {
			res.State[a.Activity] = a.Sum / float64(a.Count)
			continue
		}
		res.State[a.Activity] = a.Sum
	}
	return res, nil
}

// CurrentGoalsQuery carries input for the current goals projection.
type CurrentGoalsQuery struct {
	Now time.Time // optional: if zero, time.Now() is used
}

// CurrentGoalsResult carries this week's goals.
type CurrentGoalsResult struct {
	WeekKey string       `json:"week_key"`
	Goals   goal.Targets `json:"goals"`
}

// CurrentGoalsDeps holds dependencies for the current goals projection.
type CurrentGoalsDeps struct {
	Goals GoalReader
}

// QueryCurrentGoals returns the goals keyed by this week's key.
// POST: Activities without a goal are absent and read as 0
func QueryCurrentGoals(ctx context.Context, query CurrentGoalsQuery, deps CurrentGoalsDeps) (CurrentGoalsResult, error) {
	today := query.Now
	if today.IsZero() {
		today = time.Now()
	}
	weekKey := period.WeekKey(today)

	goals, err := deps.Goals.ListByWeek(ctx, weekKey)
	if err != nil {
		return CurrentGoalsResult{}, fmt.Errorf("current goals: %w", err)
	}
	res := CurrentGoalsResult{WeekKey: weekKey, Goals: make(goal.Targets, len(goals))}
	for _, g := range goals {
		res.Goals[g.Activity] = g.Value
	}
	return res, nil
}

// HistoricalGoalQuery carries input for the historical goal projection.
type HistoricalGoalQuery struct {
	Activity string
	Period   period.Period
	Now      time.Time // optional: if zero, time.Now() is used
}

// HistoricalGoalResult carries the summed goal over a period.
type HistoricalGoalResult struct {
	Activity string   `json:"activity"`
	Period   string   `json:"period"`
	WeekKeys []string `json:"week_keys"`
	Value    float64  `json:"value"`
}

// HistoricalGoalDeps holds dependencies for the historical goal projection.
type HistoricalGoalDeps struct {
	Goals GoalReader
}

// QueryHistoricalGoal sums an activity's goals over every week touched by the period.
// PRE: Activity is non-empty
// POST: Value == sum of goal values for the keys in WeekKeys
func QueryHistoricalGoal(ctx context.Context, query HistoricalGoalQuery, deps HistoricalGoalDeps) (HistoricalGoalResult, error) {
	today := query.Now
	if today.IsZero() {
		today = time.Now()
	}
	if query.Activity == "" {
		return HistoricalGoalResult{}, fmt.Errorf("activity is required")
	}
	keys := period.WeeksInPeriod(query.Period, today)

	value, err := deps.Goals.SumForWeeks(ctx, query.Activity, keys)
	if err != nil {
		return HistoricalGoalResult{}, fmt.Errorf("historical goal: %w", err)
	}
	return HistoricalGoalResult{
		Activity: query.Activity,
		Period:   string(query.Period),
		WeekKeys: keys,
		Value:    value,
	}, nil
}
