package goal

import (
	"errors"
	"math"
	"strings"
)

// Domain errors
var (
	ErrEmptyWeekKey  = errors.New("week key is required")
	ErrEmptyActivity = errors.New("activity is required")
	ErrNegativeValue = errors.New("goal value cannot be negative")
	ErrInvalidValue  = errors.New("goal value must be a finite number")
)

// Goal is the cumulative target for one activity in one ISO week.
// Goals are keyed by (WeekKey, Activity) and upserted.
type Goal struct {
	WeekKey  string  `json:"week_key"` // "{isoYear}-{isoWeek}"
	Activity string  `json:"activity"`
	Value    float64 `json:"value"`
}

// Validate checks if the Goal has valid data.
// PRE: Goal struct is populated
// POST: Returns nil if valid, error otherwise
func (g *Goal) Validate() error {
	if strings.TrimSpace(g.WeekKey) == "" {
		return ErrEmptyWeekKey
	}
	if strings.TrimSpace(g.Activity) == "" {
		return ErrEmptyActivity
	}
	if math.IsNaN(g.Value) || math.IsInf(g.Value, 0) {
		return ErrInvalidValue
	}
	if g.Value < 0 {
		return ErrNegativeValue
	}
	return nil
}

// Targets maps an activity to its goal value. Missing activities are 0.
type Targets map[string]float64

// Get returns the goal for an activity, 0 when absent.
func (t Targets) Get(activity string) float64 {
	return t[activity]
}
