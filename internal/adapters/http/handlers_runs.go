package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"trainingpanel/internal/application/orchestrators"
	"trainingpanel/internal/domain/logentry"
	"trainingpanel/internal/domain/run"
)

type addRunRequest struct {
	Distance float64 `json:"distance"`
	TimeMin  float64 `json:"time_min"`
	Note     string  `json:"note"`
	Date     string  `json:"date"`
}

type addRunResponse struct {
	Run     run.Run             `json:"run"`
	Entries []logentry.LogEntry `json:"entries"`
}

// handleAddRun handles POST /api/runs
func (s *Server) handleAddRun(w http.ResponseWriter, r *http.Request) {
	var req addRunRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := orchestrators.ExecuteAddRun(r.Context(), orchestrators.AddRunInput{
		DistanceKm: req.Distance,
		TimeMin:    req.TimeMin,
		Note:       req.Note,
		Date:       req.Date,
	}, orchestrators.AddRunDeps{Runs: t.runs, Log: t.log, Now: s.now})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addRunResponse{Run: result.Run, Entries: result.Entries})
}

func runID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

type updateRunRequest struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}

// handleUpdateRun handles PATCH /api/runs/{id}
func (s *Server) handleUpdateRun(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	var req updateRunRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	err = orchestrators.ExecuteUpdateRun(r.Context(), orchestrators.UpdateRunInput{
		ID:     id,
		Column: req.Column,
		Value:  req.Value,
	}, orchestrators.UpdateRunDeps{Runs: t.runs})
	if errors.Is(err, run.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteRun handles DELETE /api/runs/{id}. The run's log entries stay.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	err = orchestrators.ExecuteDeleteRun(r.Context(), id, orchestrators.DeleteRunDeps{Runs: t.runs})
	if errors.Is(err, run.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReconcileRuns handles POST /api/runs/batch. Partial failures are
// reported through the counts, not the status code.
func (s *Server) handleReconcileRuns(w http.ResponseWriter, r *http.Request) {
	var batch run.Batch
	if !decodeOrReject(w, r, &batch) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result, err := orchestrators.ExecuteReconcileRuns(r.Context(), batch,
		orchestrators.ReconcileRunsDeps{Runs: t.runs, Log: t.log, Now: s.now})
	if err != nil {
		slog.Warn("run_event", "event", "batch_partial", "tenant", t.name, "failed", result.Failed, "error", err)
	}
	writeJSON(w, http.StatusOK, result)
}
