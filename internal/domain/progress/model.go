package progress

import (
	"fmt"
	"math"

	"trainingpanel/internal/domain/activity"
)

// Progress is the display state of one activity for the current week.
// Pace-like activities carry Average and never a Ratio.
type Progress struct {
	Activity   string  `json:"activity"`
	Category   string  `json:"category"`
	IsBadHabit bool    `json:"is_bad_habit"`
	IsAverage  bool    `json:"is_average"`
	State      float64 `json:"state"`
	Goal       float64 `json:"goal"`
	Ratio      float64 `json:"ratio"`
	OverLimit  bool    `json:"over_limit"`
	Label      string  `json:"label"`
	// Fractional activities are corrected in 0.5 steps, others in whole units.
	Fractional bool `json:"fractional"`
}

// Ratio returns min(state/goal, 1), or 0 when there is no positive goal.
func Ratio(state, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(state/goal, 1.0)
}

// OverLimit reports whether a bad habit exceeded its weekly allowance.
func OverLimit(isBadHabit bool, state, goal float64) bool {
	return isBadHabit && goal > 0 && state > goal
}

// Compute builds the display state for cfg.
// For pace-like activities state is the weekly average of the logged values.
// PRE: cfg.Name is non-empty
// POST: Ratio and OverLimit are zero for pace-like activities
func Compute(cfg activity.Config, state, goal float64) Progress {
	p := Progress{
		Activity:   cfg.Name,
		Category:   cfg.Category,
		IsBadHabit: cfg.IsBadHabit,
		State:      state,
		Goal:       goal,
		Fractional: activity.IsFractional(cfg.Name),
	}
	if activity.IsPaceLike(cfg.Name) {
		p.IsAverage = true
		p.Label = fmt.Sprintf("%.2f", state)
		return p
	}
	p.Ratio = Ratio(state, goal)
	p.OverLimit = OverLimit(cfg.IsBadHabit, state, goal)
	p.Label = fmt.Sprintf("%d / %d", int64(state), int64(goal))
	return p
}

// Hidden reports whether a row has nothing to show: no goal and no activity.
func (p Progress) Hidden() bool {
	return p.Goal == 0 && p.State == 0
}
