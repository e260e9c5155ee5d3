package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"trainingpanel/internal/application/listutil"
	"trainingpanel/internal/application/projections"
	"trainingpanel/internal/domain/period"
)

// DefaultPerfWindow is the look-back window of GET /api/perf.
const DefaultPerfWindow = time.Hour

// handleDashboard handles GET /api/dashboard?view=all|<category>
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := projections.QueryDashboard(r.Context(), projections.DashboardQuery{
		View: r.URL.Query().Get("view"),
		Now:  s.now(),
	}, projections.DashboardDeps{
		Config: t.activities,
		Cache:  t.cache,
		Log:    t.log,
		Goals:  t.goals,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleWeeklyState handles GET /api/state/weekly
func (s *Server) handleWeeklyState(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := projections.QueryWeeklyState(r.Context(),
		projections.WeeklyStateQuery{Now: s.now()},
		projections.WeeklyStateDeps{Log: t.log})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCurrentGoals handles GET /api/goals/current
func (s *Server) handleCurrentGoals(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := projections.QueryCurrentGoals(r.Context(),
		projections.CurrentGoalsQuery{Now: s.now()},
		projections.CurrentGoalsDeps{Goals: t.goals})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleHistoricalGoal handles GET /api/goals/historical?activity=...&period=...
func (s *Server) handleHistoricalGoal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("activity"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "activity is required")
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := projections.QueryHistoricalGoal(r.Context(), projections.HistoricalGoalQuery{
		Activity: name,
		Period:   period.Parse(q.Get("period")),
		Now:      s.now(),
	}, projections.HistoricalGoalDeps{Goals: t.goals})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleChart handles GET /api/chart?activity=a&activity=b&period=...
// A comma separated activities parameter is accepted too.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	names := parseActivityList(q)
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, "at least one activity is required")
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := projections.QueryChartData(r.Context(), projections.ChartDataQuery{
		Activities: names,
		Period:     period.Parse(q.Get("period")),
		Now:        s.now(),
	}, projections.ChartDataDeps{Log: t.log, Goals: t.goals})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseActivityList(q map[string][]string) []string {
	var out []string
	raw := append([]string{}, q["activity"]...)
	raw = append(raw, q["activities"]...)
	for _, v := range raw {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// handleRunHistory handles GET /api/runs?page=&per_page=
func (s *Server) handleRunHistory(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := projections.QueryRunHistory(r.Context(),
		projections.RunHistoryQuery{Page: listutil.ParsePageParams(r.URL.Query())},
		projections.RunHistoryDeps{Runs: t.runs})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleActivityCatalog handles GET /api/activities
func (s *Server) handleActivityCatalog(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := projections.QueryActivityCatalog(r.Context(),
		projections.ActivityCatalogDeps{Config: t.activities, Cache: t.cache})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePlanner handles GET /api/planner
func (s *Server) handlePlanner(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := projections.QueryPlanner(r.Context(),
		projections.PlannerQuery{Now: s.now()},
		projections.PlannerDeps{Config: t.activities, Goals: t.goals})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePerf handles GET /api/perf?minutes=&top=
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		writeError(w, http.StatusNotFound, "performance collection is disabled")
		return
	}
	window := DefaultPerfWindow
	if m, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && m > 0 {
		window = time.Duration(m) * time.Minute
	}
	top := 10
	if n, err := strconv.Atoi(r.URL.Query().Get("top")); err == nil && n > 0 {
		top = n
	}
	writeJSON(w, http.StatusOK, s.collector.Snapshot(time.Now().Add(-window), top))
}
