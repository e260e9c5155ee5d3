package activity_test

import (
	"slices"
	"strings"
	"testing"

	"trainingpanel/internal/domain/activity"
)

// TestConfig_Validate tests validation of Config.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     activity.Config
		wantErr error
	}{
		{"valid", activity.Config{Name: "Yoga", Category: "Recovery"}, nil},
		{"blank name", activity.Config{Name: "  ", Category: "Recovery"}, activity.ErrEmptyName},
		{"blank category", activity.Config{Name: "Yoga"}, activity.ErrEmptyCategory},
		{"long name", activity.Config{Name: strings.Repeat("x", 101), Category: "Recovery"}, activity.ErrNameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestIsPaceLike tests the case-insensitive pace/tempo rule.
func TestIsPaceLike(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{activity.RunningPace, true},
		{"Bieganie (tempo)", true},
		{"Cycling PACE", true},
		{activity.RunningDistance, false},
		{"Pushups", false},
	}
	for _, tt := range tests {
		if got := activity.IsPaceLike(tt.name); got != tt.want {
			t.Errorf("IsPaceLike(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestDefaultQuickAddAmount tests default amounts per activity kind.
func TestDefaultQuickAddAmount(t *testing.T) {
	if got := activity.DefaultQuickAddAmount("6a+", "Sport Climbing"); got != 1.0 {
		t.Errorf("climbing = %v, want 1", got)
	}
	if got := activity.DefaultQuickAddAmount("Sauna (min)", "Recovery"); got != 5.0 {
		t.Errorf("sauna = %v, want 5", got)
	}
	if got := activity.DefaultQuickAddAmount("Coffee", "Bad Habits"); got != 1.0 {
		t.Errorf("coffee = %v, want 1", got)
	}
}

// TestSortNames tests grade ordering for climbing and alphabetical otherwise.
func TestSortNames(t *testing.T) {
	grades := []string{"6b", "5", "6A+", "7a", "6a", "V9"}
	activity.SortNames("Bouldering", grades)
	want := []string{"5", "6a", "6A+", "6b", "7a", "V9"}
	if !slices.Equal(grades, want) {
		t.Errorf("climbing order = %v, want %v", grades, want)
	}

	names := []string{"Pushups", "Pool (laps)", "Pullups"}
	activity.SortNames("Workouts", names)
	want = []string{"Pool (laps)", "Pullups", "Pushups"}
	if !slices.Equal(names, want) {
		t.Errorf("alphabetical order = %v, want %v", names, want)
	}
}

// TestDefaults_UniqueNames guards the seed set against primary key collisions.
func TestDefaults_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range activity.Defaults {
		if seen[c.Name] {
			t.Errorf("duplicate default activity %q", c.Name)
		}
		seen[c.Name] = true
		if err := c.Validate(); err != nil {
			t.Errorf("default %q invalid: %v", c.Name, err)
		}
	}
}
