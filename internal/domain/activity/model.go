package activity

import (
	"errors"
	"sort"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength     = 100
	MaxCategoryLength = 100
)

// Well-known activity names written by run tracking.
const (
	RunningDistance = "Running (km)"
	RunningPace     = "Running (pace)"
)

// Climbing categories use a binary "sent it" quick-add and grade ordering.
var ClimbingCategories = []string{"Bouldering", "Sport Climbing", "Baldy", "Liny"}

// gradeOrder ranks climbing grades from easiest to hardest (case-insensitive).
var gradeOrder = []string{"3", "4", "5", "5+", "6a", "6a+", "6b", "6b+", "6c", "6c+", "7a", "7a+", "7b", "7b+", "7c", "7c+", "8a", "8a+", "8b", "8b+", "8c", "9a"}

// pacePatterns mark activities measured as an average rather than a total.
var pacePatterns = []string{"pace", "tempo"}

// fractionalPatterns mark activities whose quick-add amount is usually fractional.
var fractionalPatterns = []string{"km", "pace", "tempo", "sauna"}

// Domain errors
var (
	ErrEmptyName       = errors.New("activity name is required")
	ErrEmptyCategory   = errors.New("category is required")
	ErrNameTooLong     = errors.New("activity name cannot exceed 100 characters")
	ErrCategoryTooLong = errors.New("category cannot exceed 100 characters")
	ErrSameName        = errors.New("new name must differ from the old name")
)

// Config defines one loggable activity and its grouping.
type Config struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	IsBadHabit bool   `json:"is_bad_habit"`
}

// Validate checks if the Config has valid data.
// PRE: Config struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Category) == "" {
		return ErrEmptyCategory
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(c.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	return nil
}

// Normalize trims surrounding whitespace from name and category.
func (c *Config) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Category = strings.TrimSpace(c.Category)
}

// IsPaceLike reports whether an activity is exempt from goal-based progress.
// Any name containing "pace" or "tempo" (case-insensitive) qualifies.
func IsPaceLike(name string) bool {
	return containsAny(strings.ToLower(name), pacePatterns)
}

// IsFractional reports whether the activity is usually logged with decimals.
func IsFractional(name string) bool {
	return containsAny(strings.ToLower(name), fractionalPatterns)
}

// IsClimbingCategory reports whether the category holds climbing grades.
func IsClimbingCategory(category string) bool {
	for _, c := range ClimbingCategories {
		if c == category {
			return true
		}
	}
	return false
}

// DefaultQuickAddAmount is the amount logged when the caller gives none.
// Climbing sends and counts log 1; fractional activities default to 5.
func DefaultQuickAddAmount(name, category string) float64 {
	if IsClimbingCategory(category) {
		return 1.0
	}
	if IsFractional(name) {
		return 5.0
	}
	return 1.0
}

// GradeRank returns the position of a climbing grade, or 999 if unknown.
func GradeRank(grade string) int {
	g := strings.ToLower(grade)
	for i, o := range gradeOrder {
		if o == g {
			return i
		}
	}
	return 999
}

// SortNames orders activity names for display within a category:
// climbing categories by grade, everything else alphabetically.
// POST: names is sorted in place
func SortNames(category string, names []string) {
	if IsClimbingCategory(category) {
		sort.SliceStable(names, func(i, j int) bool {
			return GradeRank(names[i]) < GradeRank(names[j])
		})
		return
	}
	sort.Strings(names)
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
