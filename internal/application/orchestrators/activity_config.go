package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"trainingpanel/internal/adapters/storage"
	"trainingpanel/internal/domain/activity"
)

// ActivityInserter adds activity config rows.
type ActivityInserter interface {
	Insert(ctx context.Context, c activity.Config) error
}

// AddActivityInput carries input for the add-activity orchestrator.
type AddActivityInput struct {
	Name       string
	Category   string
	IsBadHabit bool
}

// AddActivityDeps holds dependencies for AddActivity.
type AddActivityDeps struct {
	Activities ActivityInserter
	Cache      ConfigInvalidator
}

// ExecuteAddActivity inserts one activity config row.
// PRE: Name and Category are non-empty after trimming
// POST: Returns false without error when the name is already taken
func ExecuteAddActivity(ctx context.Context, input AddActivityInput, deps AddActivityDeps) (bool, error) {
	c := activity.Config{Name: input.Name, Category: input.Category, IsBadHabit: input.IsBadHabit}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return false, err
	}

	if err := deps.Activities.Insert(ctx, c); err != nil {
		if storage.IsUniqueViolation(err) {
			slog.Warn("config_event", "event", "activity_add_rejected", "name", c.Name, "reason", "duplicate")
			return false, nil
		}
		return false, fmt.Errorf("add activity: %w", err)
	}

	invalidateConfig(ctx, deps.Cache, "activity_added")
	slog.Info("config_event", "event", "activity_added", "name", c.Name, "category", c.Category, "bad_habit", c.IsBadHabit)
	return true, nil
}

// ActivityDeleter removes activity config rows.
type ActivityDeleter interface {
	Delete(ctx context.Context, name string) (bool, error)
}

// DeleteActivityDeps holds dependencies for DeleteActivity.
type DeleteActivityDeps struct {
	Activities ActivityDeleter
	Cache      ConfigInvalidator
}

// ExecuteDeleteActivity removes the config row of one activity.
// POST: Returns false when no such activity exists
// INVARIANT: Log entries and goals of the activity are kept
func ExecuteDeleteActivity(ctx context.Context, name string, deps DeleteActivityDeps) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, activity.ErrEmptyName
	}
	deleted, err := deps.Activities.Delete(ctx, name)
	if err != nil {
		return false, fmt.Errorf("delete activity: %w", err)
	}
	if deleted {
		invalidateConfig(ctx, deps.Cache, "activity_deleted")
		slog.Info("config_event", "event", "activity_deleted", "name", name)
	}
	return deleted, nil
}

// ActivityRenamer renames activities and categories.
type ActivityRenamer interface {
	Rename(ctx context.Context, oldName, newName string) (bool, error)
	RenameCategory(ctx context.Context, oldCategory, newCategory string) (int64, error)
}

// RenameInput carries the old and new value for a rename.
type RenameInput struct {
	Old string
	New string
}

// RenameDeps holds dependencies for the rename orchestrators.
type RenameDeps struct {
	Activities ActivityRenamer
	Cache      ConfigInvalidator
}

// ErrNameTaken is returned when a rename target already exists.
var ErrNameTaken = errors.New("an activity with that name already exists")

// ExecuteRenameActivity renames one activity config row.
// PRE: Old and New are non-empty and differ
// POST: Returns false when Old does not exist, ErrNameTaken when New does
// INVARIANT: Historical log entries and goals keep the old name
func ExecuteRenameActivity(ctx context.Context, input RenameInput, deps RenameDeps) (bool, error) {
	oldName, newName, err := normalizeRename(input)
	if err != nil {
		return false, err
	}
	if len(newName) > activity.MaxNameLength {
		return false, activity.ErrNameTooLong
	}

	renamed, err := deps.Activities.Rename(ctx, oldName, newName)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return false, ErrNameTaken
		}
		return false, fmt.Errorf("rename activity: %w", err)
	}
	if renamed {
		invalidateConfig(ctx, deps.Cache, "activity_renamed")
		slog.Info("config_event", "event", "activity_renamed", "from", oldName, "to", newName)
	}
	return renamed, nil
}

// ExecuteRenameCategory moves every activity in Old to New.
// PRE: Old and New are non-empty and differ
// POST: Returns the number of activities moved
func ExecuteRenameCategory(ctx context.Context, input RenameInput, deps RenameDeps) (int64, error) {
	oldCategory, newCategory, err := normalizeRename(input)
	if err != nil {
		return 0, err
	}
	if len(newCategory) > activity.MaxCategoryLength {
		return 0, activity.ErrCategoryTooLong
	}

	n, err := deps.Activities.RenameCategory(ctx, oldCategory, newCategory)
	if err != nil {
		return 0, fmt.Errorf("rename category: %w", err)
	}
	if n > 0 {
		invalidateConfig(ctx, deps.Cache, "category_renamed")
		slog.Info("config_event", "event", "category_renamed", "from", oldCategory, "to", newCategory, "activities", n)
	}
	return n, nil
}

func normalizeRename(input RenameInput) (string, string, error) {
	oldValue := strings.TrimSpace(input.Old)
	newValue := strings.TrimSpace(input.New)
	if oldValue == "" || newValue == "" {
		return "", "", activity.ErrEmptyName
	}
	if oldValue == newValue {
		return "", "", activity.ErrSameName
	}
	return oldValue, newValue, nil
}

// ActivitySeeder inserts the default activity set into an empty config.
type ActivitySeeder interface {
	Count(ctx context.Context) (int, error)
	InsertIgnore(ctx context.Context, c activity.Config) (bool, error)
}

// SeedActivitiesDeps holds dependencies for SeedActivities.
type SeedActivitiesDeps struct {
	Activities ActivitySeeder
	Defaults   []activity.Config // nil means activity.Defaults
}

// ExecuteSeedActivities fills an empty activity config with the default set.
// POST: Returns the number of rows inserted; a non-empty config is left untouched
// INVARIANT: Safe to run on every first connection
func ExecuteSeedActivities(ctx context.Context, deps SeedActivitiesDeps) (int, error) {
	n, err := deps.Activities.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	defaults := deps.Defaults
	if defaults == nil {
		defaults = activity.Defaults
	}
	inserted := 0
	for _, c := range defaults {
		ok, err := deps.Activities.InsertIgnore(ctx, c)
		if err != nil {
			return inserted, fmt.Errorf("seed %s: %w", c.Name, err)
		}
		if ok {
			inserted++
		}
	}

	slog.Info("config_event", "event", "activities_seeded", "count", inserted)
	return inserted, nil
}
