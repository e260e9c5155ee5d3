package projections

import (
	"context"
	"fmt"
	"time"

	"trainingpanel/internal/domain/activity"
	"trainingpanel/internal/domain/logentry"
	"trainingpanel/internal/domain/period"
)

// ChartDataQuery carries input for the chart data projection.
type ChartDataQuery struct {
	Activities []string
	Period     period.Period
	Now        time.Time // optional: if zero, time.Now() is used
}

// ChartBar is one aggregated bar with its goal line.
// GoalLine is 0 for pace-like activities, which carry no goal tick.
type ChartBar struct {
	Activity string  `json:"activity"`
	Amount   float64 `json:"amount"`
	GoalLine float64 `json:"goal_line"`
}

// ChartDataResult carries raw rows and one bar per requested activity.
type ChartDataResult struct {
	Period string              `json:"period"`
	Since  string              `json:"since"`
	Rows   []logentry.LogEntry `json:"rows"`
	Bars   []ChartBar          `json:"bars"`
}

// ChartDataDeps holds dependencies for the chart data projection.
type ChartDataDeps struct {
	Log   LogLister
	Goals GoalReader
}

// QueryChartData returns the entries of the requested activities since the
// period start plus a per-activity sum left-joined against the request.
// POST: len(Bars) == len(Activities), in request order; activities without entries get Amount 0
func QueryChartData(ctx context.Context, query ChartDataQuery, deps ChartDataDeps) (ChartDataResult, error) {
	today := query.Now
	if today.IsZero() {
		today = time.Now()
	}
	res := ChartDataResult{
		Period: string(query.Period),
		Since:  period.StartDate(query.Period, today),
		Rows:   []logentry.LogEntry{},
		Bars:   make([]ChartBar, 0, len(query.Activities)),
	}
	if len(query.Activities) == 0 {
		return res, nil
	}

	rows, err := deps.Log.ListSince(ctx, res.Since, query.Activities)
	if err != nil {
		return ChartDataResult{}, fmt.Errorf("chart rows: %w", err)
	}
	if rows != nil {
		res.Rows = rows
	}
	totals := logentry.Sum(rows)

	keys := period.WeeksInPeriod(query.Period, today)
	for _, name := range query.Activities {
		bar := ChartBar{Activity: name, Amount: totals.Get(name)}
		if !activity.IsPaceLike(name) {
			bar.GoalLine, err = deps.Goals.SumForWeeks(ctx, name, keys)
			if err != nil {
				return ChartDataResult{}, fmt.Errorf("chart goal %s: %w", name, err)
			}
		}
		res.Bars = append(res.Bars, bar)
	}
	return res, nil
}
