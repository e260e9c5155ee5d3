package logentry_test

import (
	"math"
	"testing"

	"trainingpanel/internal/domain/logentry"
)

// TestLogEntry_Validate tests validation of LogEntry.
func TestLogEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   logentry.LogEntry
		wantErr error
	}{
		{"valid", logentry.LogEntry{Date: "2026-10-16", Activity: "Pushups", Amount: 20}, nil},
		{"negative delta is valid", logentry.LogEntry{Date: "2026-10-16", Activity: "Pushups", Amount: -2}, nil},
		{"missing activity", logentry.LogEntry{Date: "2026-10-16", Amount: 1}, logentry.ErrEmptyActivity},
		{"bad date", logentry.LogEntry{Date: "16.10.2026", Activity: "Pushups", Amount: 1}, logentry.ErrInvalidDate},
		{"nan amount", logentry.LogEntry{Date: "2026-10-16", Activity: "Pushups", Amount: math.NaN()}, logentry.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.entry.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestDelta tests the correction delta.
func TestDelta(t *testing.T) {
	tests := []struct {
		current, target float64
		want            float64
		changed         bool
	}{
		{3, 7, 4, true},
		{7, 5, -2, true},
		{5, 5, 0, false},
		{0.5, 1.25, 0.75, true},
	}
	for _, tt := range tests {
		got, changed := logentry.Delta(tt.current, tt.target)
		if got != tt.want || changed != tt.changed {
			t.Errorf("Delta(%v, %v) = (%v, %v), want (%v, %v)", tt.current, tt.target, got, changed, tt.want, tt.changed)
		}
	}
}

// TestSum tests per-activity aggregation.
func TestSum(t *testing.T) {
	totals := logentry.Sum([]logentry.LogEntry{
		{Activity: "Coffee", Amount: 1},
		{Activity: "Coffee", Amount: 2},
		{Activity: "Pushups", Amount: 30},
		{Activity: "Pushups", Amount: -5},
	})
	if totals.Get("Coffee") != 3 {
		t.Errorf("Coffee = %v, want 3", totals.Get("Coffee"))
	}
	if totals.Get("Pushups") != 25 {
		t.Errorf("Pushups = %v, want 25", totals.Get("Pushups"))
	}
	if totals.Get("Sweets") != 0 {
		t.Errorf("Sweets = %v, want 0", totals.Get("Sweets"))
	}
}

// TestDescribe tests the undo confirmation text.
func TestDescribe(t *testing.T) {
	e := logentry.LogEntry{Activity: "Coffee", Amount: 1}
	if got := e.Describe(); got != "Coffee (1)" {
		t.Errorf("Describe() = %q, want %q", got, "Coffee (1)")
	}
}
