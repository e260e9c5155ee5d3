package period

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the text encoding used for every persisted date.
const DateLayout = "2006-01-02"

// Period selects the window a chart or historical goal covers.
type Period string

// Period constants
const (
	ThisWeek  Period = "This Week"
	ThisMonth Period = "This Month"
	ThisYear  Period = "This Year"
	Today     Period = "Today"
)

// All lists the selectable periods in display order.
var All = []Period{ThisWeek, ThisMonth, ThisYear}

// aliases maps every accepted label (lower-cased) to its Period.
var aliases = map[string]Period{
	"this week":   ThisWeek,
	"week":        ThisWeek,
	"ten tydzień": ThisWeek,
	"this month":  ThisMonth,
	"month":       ThisMonth,
	"ten miesiąc": ThisMonth,
	"this year":   ThisYear,
	"year":        ThisYear,
	"ten rok":     ThisYear,
}

// Parse maps a period label to a Period. Unknown labels resolve to Today.
// PRE: none
// POST: Returns one of ThisWeek, ThisMonth, ThisYear, Today
func Parse(label string) Period {
	if p, ok := aliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return p
	}
	return Today
}

// Day truncates t to a calendar date in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// WeekKey returns the ISO week key "{isoYear}-{isoWeek}" for t.
// Week numbers are not zero padded.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-%d", year, week)
}

// Start returns the first day of the period that contains today.
// PRE: today is a valid time
// POST: Returns a date <= today
func Start(p Period, today time.Time) time.Time {
	today = Day(today)
	switch p {
	case ThisWeek:
		daysSinceMonday := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -daysSinceMonday)
	case ThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	case ThisYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
	default:
		return today
	}
}

// StartDate is Start formatted as YYYY-MM-DD, the form used in SQL filters.
func StartDate(p Period, today time.Time) string {
	return FormatDate(Start(p, today))
}

// WeeksInPeriod enumerates the week keys touched by stepping 7 days from the
// period start up to today, and always adds today's own key. Stepping from a
// start that falls later in its week than today does can skip today's week;
// goal rows are keyed the same way, so the extra key stays.
// PRE: today is a valid time
// POST: Returns a sorted, de-duplicated, non-empty slice
func WeeksInPeriod(p Period, today time.Time) []string {
	today = Day(today)
	seen := make(map[string]struct{})
	for cur := Start(p, today); !cur.After(today); cur = cur.AddDate(0, 0, 7) {
		seen[WeekKey(cur)] = struct{}{}
	}
	seen[WeekKey(today)] = struct{}{}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
