package projections

import (
	"context"
	"fmt"
	"time"

	"trainingpanel/internal/domain/activity"
	"trainingpanel/internal/domain/progress"
)

// ViewAll shows every category on the dashboard.
const ViewAll = "all"

// DashboardQuery carries input for the dashboard projection.
type DashboardQuery struct {
	View string    // ViewAll, empty, or a category name
	Now  time.Time // optional: if zero, time.Now() is used
}

// DashboardCategory is one category section of the dashboard.
type DashboardCategory struct {
	Name       string              `json:"name"`
	IsBadHabit bool                `json:"is_bad_habit"`
	Climbing   bool                `json:"climbing"`
	Rows       []progress.Progress `json:"rows"`
}

// DashboardResult carries the visible progress rows grouped by category.
type DashboardResult struct {
	WeekKey    string              `json:"week_key"`
	View       string              `json:"view"`
	Categories []DashboardCategory `json:"categories"`
}

// DashboardDeps holds dependencies for the dashboard projection.
type DashboardDeps struct {
	Config ConfigLister
	Cache  ConfigCache
	Log    LogAggregator
	Goals  GoalReader
}

// QueryDashboard builds the weekly progress view.
// POST: Rows with goal 0 and state 0 are omitted; a category is a bad-habit
// section when any of its activities is a bad habit
func QueryDashboard(ctx context.Context, query DashboardQuery, deps DashboardDeps) (DashboardResult, error) {
	today := query.Now
	if today.IsZero() {
		today = time.Now()
	}
	view := query.View
	if view == "" {
		view = ViewAll
	}

	cfg, err := loadConfig(ctx, deps.Cache, deps.Config)
	if err != nil {
		return DashboardResult{}, fmt.Errorf("dashboard config: %w", err)
	}
	state, err := QueryWeeklyState(ctx, WeeklyStateQuery{Now: today}, WeeklyStateDeps{Log: deps.Log})
	if err != nil {
		return DashboardResult{}, err
	}
	goals, err := QueryCurrentGoals(ctx, CurrentGoalsQuery{Now: today}, CurrentGoalsDeps{Goals: deps.Goals})
	if err != nil {
		return DashboardResult{}, err
	}

	res := DashboardResult{WeekKey: goals.WeekKey, View: view, Categories: []DashboardCategory{}}
	for _, group := range groupByCategory(cfg) {
		if view != ViewAll && group.name != view {
			continue
		}
		section := DashboardCategory{
			Name:     group.name,
			Climbing: activity.IsClimbingCategory(group.name),
			Rows:     []progress.Progress{},
		}
		for _, c := range group.configs {
			if c.IsBadHabit {
				section.IsBadHabit = true
			}
			p := progress.Compute(c, state.State.Get(c.Name), goals.Goals.Get(c.Name))
			if p.Hidden() {
				continue
			}
			section.Rows = append(section.Rows, p)
		}
		res.Categories = append(res.Categories, section)
	}
	return res, nil
}

type categoryGroup struct {
	name    string
	configs []activity.Config
}

// groupByCategory groups config rows by category in first-seen order and
// sorts each group the way the catalog displays it.
func groupByCategory(cfg []activity.Config) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup
	for _, c := range cfg {
		i, ok := index[c.Category]
		if !ok {
			i = len(groups)
			index[c.Category] = i
			groups = append(groups, categoryGroup{name: c.Category})
		}
		groups[i].configs = append(groups[i].configs, c)
	}
	for i := range groups {
		g := &groups[i]
		names := make([]string, len(g.configs))
		byName := make(map[string]activity.Config, len(g.configs))
		for j, c := range g.configs {
			names[j] = c.Name
			byName[c.Name] = c
		}
		activity.SortNames(g.name, names)
		for j, n := range names {
			g.configs[j] = byName[n]
		}
	}
	return groups
}
