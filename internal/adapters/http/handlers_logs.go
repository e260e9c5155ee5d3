package web

import (
	"log/slog"
	"net/http"

	"trainingpanel/internal/application/orchestrators"
	"trainingpanel/internal/domain/goal"
	"trainingpanel/internal/domain/logentry"
)

type quickAddRequest struct {
	Activity string   `json:"activity"`
	Amount   *float64 `json:"amount"`
}

// handleQuickAdd handles POST /api/logs
func (s *Server) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	var req quickAddRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	entry, err := orchestrators.ExecuteQuickAdd(r.Context(), orchestrators.QuickAddInput{
		Activity: req.Activity,
		Amount:   req.Amount,
	}, orchestrators.QuickAddDeps{Log: t.log, Now: s.now})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

type correctionRequest struct {
	Activity string  `json:"activity"`
	Current  float64 `json:"current"`
	Target   float64 `json:"target"`
}

type correctionResponse struct {
	Written bool               `json:"written"`
	Entry   *logentry.LogEntry `json:"entry,omitempty"`
}

// handleCorrection handles POST /api/logs/correction
func (s *Server) handleCorrection(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := orchestrators.ExecuteCorrection(r.Context(), orchestrators.CorrectionInput{
		Activity: req.Activity,
		Current:  req.Current,
		Target:   req.Target,
	}, orchestrators.CorrectionDeps{Log: t.log, Now: s.now})
	if err != nil {
		fail(w, err)
		return
	}
	resp := correctionResponse{Written: result.Written}
	if result.Written {
		resp.Entry = &result.Entry
	}
	writeJSON(w, http.StatusOK, resp)
}

type undoResponse struct {
	Removed     bool               `json:"removed"`
	Description string             `json:"description,omitempty"`
	Entry       *logentry.LogEntry `json:"entry,omitempty"`
}

// handleUndoLastLog handles DELETE /api/logs/last
func (s *Server) handleUndoLastLog(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := orchestrators.ExecuteUndoLastLog(r.Context(), orchestrators.UndoLastLogDeps{Log: t.log})
	if err != nil {
		internalError(w, err)
		return
	}
	resp := undoResponse{Removed: result.OK}
	if result.OK {
		resp.Description = result.Description
		resp.Entry = &result.Entry
	}
	writeJSON(w, http.StatusOK, resp)
}

type setGoalRequest struct {
	Activity string  `json:"activity"`
	Value    float64 `json:"value"`
}

// handleSetGoal handles PUT /api/goals
func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req setGoalRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	g, err := orchestrators.ExecuteSetGoal(r.Context(), orchestrators.SetGoalInput{
		Activity: req.Activity,
		Value:    req.Value,
	}, orchestrators.SetGoalDeps{Goals: t.goals, Now: s.now})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type saveWeeklyGoalsRequest struct {
	Goals goal.Targets `json:"goals"`
}

// handleSaveWeeklyGoals handles POST /api/goals/weekly. Invalid goals are
// counted in the response; the rest are saved.
func (s *Server) handleSaveWeeklyGoals(w http.ResponseWriter, r *http.Request) {
	var req saveWeeklyGoalsRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := orchestrators.ExecuteSaveWeeklyGoals(r.Context(), req.Goals,
		orchestrators.SetGoalDeps{Goals: t.goals, Now: s.now})
	if err != nil {
		slog.Warn("goal_event", "event", "weekly_goals_partial", "tenant", t.name, "failed", result.Failed, "error", err)
	}
	writeJSON(w, http.StatusOK, result)
}
