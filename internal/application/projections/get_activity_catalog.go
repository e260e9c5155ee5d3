package projections

import (
	"context"
	"fmt"

	"trainingpanel/internal/domain/activity"
)

// CatalogEntry is one loggable activity with its quick-add hints.
type CatalogEntry struct {
	Name          string  `json:"name"`
	IsBadHabit    bool    `json:"is_bad_habit"`
	PaceLike      bool    `json:"pace_like"`
	Fractional    bool    `json:"fractional"`
	DefaultAmount float64 `json:"default_amount"`
}

// CatalogCategory groups entries under a category.
type CatalogCategory struct {
	Name       string         `json:"name"`
	Climbing   bool           `json:"climbing"`
	Activities []CatalogEntry `json:"activities"`
}

// ActivityCatalogResult is the grouped activity catalog.
type ActivityCatalogResult struct {
	Categories []CatalogCategory `json:"categories"`
	BadHabits  []string          `json:"bad_habits"`
	PaceLike   []string          `json:"pace_like"`
}

// ActivityCatalogDeps holds dependencies for the activity catalog projection.
type ActivityCatalogDeps struct {
	Config ConfigLister
	Cache  ConfigCache
}

// QueryActivityCatalog groups the activity config by category.
// POST: Climbing categories are in grade order, others alphabetical
func QueryActivityCatalog(ctx context.Context, deps ActivityCatalogDeps) (ActivityCatalogResult, error) {
	cfg, err := loadConfig(ctx, deps.Cache, deps.Config)
	if err != nil {
		return ActivityCatalogResult{}, fmt.Errorf("activity catalog: %w", err)
	}

	res := ActivityCatalogResult{
		Categories: []CatalogCategory{},
		BadHabits:  []string{},
		PaceLike:   []string{},
	}
	for _, group := range groupByCategory(cfg) {
		cat := CatalogCategory{
			Name:       group.name,
			Climbing:   activity.IsClimbingCategory(group.name),
			Activities: make([]CatalogEntry, 0, len(group.configs)),
		}
		for _, c := range group.configs {
			entry := CatalogEntry{
				Name:          c.Name,
				IsBadHabit:    c.IsBadHabit,
				PaceLike:      activity.IsPaceLike(c.Name),
				Fractional:    activity.IsFractional(c.Name),
				DefaultAmount: activity.DefaultQuickAddAmount(c.Name, c.Category),
			}
			cat.Activities = append(cat.Activities, entry)
			if entry.IsBadHabit {
				res.BadHabits = append(res.BadHabits, c.Name)
			}
			if entry.PaceLike {
				res.PaceLike = append(res.PaceLike, c.Name)
			}
		}
		res.Categories = append(res.Categories, cat)
	}
	return res, nil
}
