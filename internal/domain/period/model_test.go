package period_test

import (
	"slices"
	"testing"
	"time"

	"trainingpanel/internal/domain/period"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

// TestParse tests label resolution including localized and short labels.
func TestParse(t *testing.T) {
	tests := []struct {
		label string
		want  period.Period
	}{
		{"This Week", period.ThisWeek},
		{"ten tydzień", period.ThisWeek},
		{"month", period.ThisMonth},
		{"Ten Miesiąc", period.ThisMonth},
		{" This Year ", period.ThisYear},
		{"Ten Rok", period.ThisYear},
		{"", period.Today},
		{"fortnight", period.Today},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := period.Parse(tt.label); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

// TestWeekKey tests ISO year/week formatting, including year-boundary dates.
func TestWeekKey(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{"mid year", date(2026, 10, 16), "2026-42"},
		{"single digit week is not padded", date(2026, 1, 5), "2026-2"},
		{"jan 1 in week 1 of its own year", date(2024, 1, 1), "2024-1"},
		{"dec 31 in week 1 of next year", date(2024, 12, 31), "2025-1"},
		{"jan 1 in week 53 of previous year", date(2027, 1, 1), "2026-53"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := period.WeekKey(tt.day); got != tt.want {
				t.Errorf("WeekKey(%s) = %q, want %q", tt.day.Format(period.DateLayout), got, tt.want)
			}
		})
	}
}

// TestStart tests the first day of each period.
func TestStart(t *testing.T) {
	today := date(2026, 10, 16) // Friday
	tests := []struct {
		p    period.Period
		want string
	}{
		{period.ThisWeek, "2026-10-12"},
		{period.ThisMonth, "2026-10-01"},
		{period.ThisYear, "2026-01-01"},
		{period.Today, "2026-10-16"},
	}
	for _, tt := range tests {
		t.Run(string(tt.p), func(t *testing.T) {
			if got := period.StartDate(tt.p, today); got != tt.want {
				t.Errorf("StartDate(%q) = %s, want %s", tt.p, got, tt.want)
			}
		})
	}

	sunday := date(2026, 10, 18)
	if got := period.StartDate(period.ThisWeek, sunday); got != "2026-10-12" {
		t.Errorf("StartDate(ThisWeek, sunday) = %s, want 2026-10-12", got)
	}
}

// TestWeeksInPeriod_AlwaysIncludesToday covers the case where stepping 7 days
// from the period start jumps past today's week.
func TestWeeksInPeriod_AlwaysIncludesToday(t *testing.T) {
	// Jan 1 2026 is a Thursday (week 1); Jan 5 is Monday of week 2.
	today := date(2026, 1, 5)
	keys := period.WeeksInPeriod(period.ThisYear, today)

	want := []string{"2026-1", "2026-2"}
	if !slices.Equal(keys, want) {
		t.Fatalf("WeeksInPeriod = %v, want %v", keys, want)
	}
}

// TestWeeksInPeriod_YearStartInPreviousISOYear pins the key of a Jan 1 that
// belongs to the last ISO week of the previous year.
func TestWeeksInPeriod_YearStartInPreviousISOYear(t *testing.T) {
	today := date(2027, 1, 4) // Monday, week 2027-1
	keys := period.WeeksInPeriod(period.ThisYear, today)

	want := []string{"2026-53", "2027-1"}
	if !slices.Equal(keys, want) {
		t.Fatalf("WeeksInPeriod = %v, want %v", keys, want)
	}
}

// TestWeeksInPeriod_Month tests month enumeration.
func TestWeeksInPeriod_Month(t *testing.T) {
	today := date(2026, 10, 16)
	keys := period.WeeksInPeriod(period.ThisMonth, today)

	// Oct 1 (week 40), Oct 8 (41), Oct 15 (42)
	want := []string{"2026-40", "2026-41", "2026-42"}
	if !slices.Equal(keys, want) {
		t.Fatalf("WeeksInPeriod = %v, want %v", keys, want)
	}
}

// TestWeeksInPeriod_Year counts every week of the year so far exactly once.
func TestWeeksInPeriod_Year(t *testing.T) {
	today := date(2026, 10, 16)
	keys := period.WeeksInPeriod(period.ThisYear, today)
	if len(keys) != 42 {
		t.Fatalf("len = %d, want 42 (%v)", len(keys), keys)
	}
	if !slices.Contains(keys, period.WeekKey(today)) {
		t.Errorf("missing today's key %s", period.WeekKey(today))
	}
}

// TestWeeksInPeriod_WeekAndToday tests single-week periods.
func TestWeeksInPeriod_WeekAndToday(t *testing.T) {
	today := date(2026, 10, 16)
	for _, p := range []period.Period{period.ThisWeek, period.Today} {
		keys := period.WeeksInPeriod(p, today)
		if !slices.Equal(keys, []string{"2026-42"}) {
			t.Errorf("WeeksInPeriod(%q) = %v, want [2026-42]", p, keys)
		}
	}
}
