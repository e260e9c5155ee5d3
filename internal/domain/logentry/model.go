package logentry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"trainingpanel/internal/domain/period"
)

// Domain errors
var (
	ErrEmptyActivity = errors.New("activity is required")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrInvalidAmount = errors.New("amount must be a finite number")
)

// LogEntry is one append-only activity record. Corrections are stored as
// signed deltas so the log stays additive.
type LogEntry struct {
	ID       int64   `json:"id"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Activity string  `json:"activity"`
	Amount   float64 `json:"amount"`
}

// Validate checks if the LogEntry has valid data.
// PRE: LogEntry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *LogEntry) Validate() error {
	if strings.TrimSpace(e.Activity) == "" {
		return ErrEmptyActivity
	}
	if _, err := period.ParseDate(e.Date); err != nil {
		return ErrInvalidDate
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

// Describe renders the entry the way undo confirmations show it.
func (e LogEntry) Describe() string {
	return fmt.Sprintf("%s (%g)", e.Activity, e.Amount)
}

// Delta returns the signed amount that moves current to target.
// POST: changed is false when no entry should be written
func Delta(current, target float64) (delta float64, changed bool) {
	delta = target - current
	return delta, delta != 0
}

// Totals maps an activity to its summed amount. Missing activities are 0.
type Totals map[string]float64

// Get returns the total for an activity, 0 when absent.
func (t Totals) Get(activity string) float64 {
	return t[activity]
}

// Sum aggregates entries per activity.
func Sum(entries []LogEntry) Totals {
	out := make(Totals)
	for _, e := range entries {
		out[e.Activity] += e.Amount
	}
	return out
}
