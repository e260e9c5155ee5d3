package web

import (
	"errors"
	"log/slog"
	"net/http"

	"trainingpanel/internal/application/orchestrators"
	"trainingpanel/internal/domain/planner"
)

type addActivityRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	IsBadHabit bool   `json:"is_bad_habit"`
}

type createdResponse struct {
	Created bool `json:"created"`
}

// handleAddActivity handles POST /api/activities. A duplicate name answers
// 409 with created=false.
func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var req addActivityRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	created, err := orchestrators.ExecuteAddActivity(r.Context(), orchestrators.AddActivityInput{
		Name:       req.Name,
		Category:   req.Category,
		IsBadHabit: req.IsBadHabit,
	}, orchestrators.AddActivityDeps{Activities: t.activities, Cache: t.cache})
	if err != nil {
		fail(w, err)
		return
	}
	if !created {
		writeJSON(w, http.StatusConflict, createdResponse{Created: false})
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Created: true})
}

// handleDeleteActivity handles DELETE /api/activities/{name}
func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	deleted, err := orchestrators.ExecuteDeleteActivity(r.Context(), r.PathValue("name"),
		orchestrators.DeleteActivityDeps{Activities: t.activities, Cache: t.cache})
	if err != nil {
		fail(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renameRequest struct {
	New string `json:"new"`
}

// handleRenameActivity handles POST /api/activities/{name}/rename. Log
// entries and goals keep the old name.
func (s *Server) handleRenameActivity(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	renamed, err := orchestrators.ExecuteRenameActivity(r.Context(),
		orchestrators.RenameInput{Old: r.PathValue("name"), New: req.New},
		orchestrators.RenameDeps{Activities: t.activities, Cache: t.cache})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNameTaken) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		fail(w, err)
		return
	}
	if !renamed {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renameCategoryRequest struct {
	Old string `json:"old"`
	New string `json:"new"`
}

type renameCategoryResponse struct {
	Moved int64 `json:"moved"`
}

// handleRenameCategory handles POST /api/categories/rename
func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req renameCategoryRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}
	n, err := orchestrators.ExecuteRenameCategory(r.Context(),
		orchestrators.RenameInput{Old: req.Old, New: req.New},
		orchestrators.RenameDeps{Activities: t.activities, Cache: t.cache})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renameCategoryResponse{Moved: n})
}

// handleReconcilePlanner handles POST /api/planner/batch. The body carries
// the rows the editor rendered plus its diff; row indices are resolved
// against those rows, never against the current table.
func (s *Server) handleReconcilePlanner(w http.ResponseWriter, r *http.Request) {
	var sub planner.Submission
	if !decodeOrReject(w, r, &sub) {
		return
	}
	if sub.NeedsSnapshot() && len(sub.Snapshot) == 0 {
		writeError(w, http.StatusBadRequest, "snapshot is required to resolve edited or deleted rows")
		return
	}
	t, err := s.tenant(r)
	if err != nil {
		internalError(w, err)
		return
	}

	resolved := sub.Resolve()
	result, err := orchestrators.ExecuteReconcilePlanner(r.Context(), orchestrators.ReconcilePlannerInput{
		Request: resolved.Request,
		Skipped: resolved.Skipped,
	}, orchestrators.ReconcilePlannerDeps{
		Config:     t.activities,
		Goals:      t.goals,
		Cache:      t.cache,
		Now:        s.now,
		GenerateID: s.generateID,
	})
	if err != nil {
		slog.Warn("planner_event", "event", "batch_partial", "tenant", t.name, "batch_id", result.BatchID, "failed", result.Failed, "error", err)
	}
	writeJSON(w, http.StatusOK, result)
}
