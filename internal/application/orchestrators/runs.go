package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trainingpanel/internal/domain/activity"
	"trainingpanel/internal/domain/logentry"
	"trainingpanel/internal/domain/period"
	"trainingpanel/internal/domain/run"
)

// RunWriter inserts runs.
type RunWriter interface {
	Add(ctx context.Context, r run.Run) (int64, error)
}

// RunUpdater edits a single run column and re-derives pace.
type RunUpdater interface {
	UpdateColumn(ctx context.Context, id int64, column string, value any) error
	RecomputePace(ctx context.Context, id int64) error
}

// RunDeleter removes runs.
type RunDeleter interface {
	Delete(ctx context.Context, id int64) (bool, error)
}

// AddRunInput carries input for the add-run orchestrator.
type AddRunInput struct {
	DistanceKm float64
	TimeMin    float64
	Note       string
	Date       string // empty means today
}

// AddRunResult carries the stored run and the two log entries written with it.
type AddRunResult struct {
	Run     run.Run
	Entries []logentry.LogEntry
}

// AddRunDeps holds dependencies for AddRun.
type AddRunDeps struct {
	Runs RunWriter
	Log  LogWriter
	Now  func() time.Time
}

// ExecuteAddRun records a run and mirrors it into the activity log as a
// distance entry and a pace entry on the same date.
// PRE: DistanceKm and TimeMin are non-negative
// POST: One run row and two log entries are persisted, in that order
// INVARIANT: The writes are sequential; a failure after the run insert leaves the run without log entries
func ExecuteAddRun(ctx context.Context, input AddRunInput, deps AddRunDeps) (AddRunResult, error) {
	r := run.Run{
		Date:       input.Date,
		DistanceKm: input.DistanceKm,
		TimeMin:    input.TimeMin,
		Note:       input.Note,
	}
	if r.Date == "" {
		r.Date = period.FormatDate(now(deps.Now))
	}
	r.DerivePace()
	if err := r.Validate(); err != nil {
		return AddRunResult{}, err
	}
	return addRun(ctx, r, deps)
}

func addRun(ctx context.Context, r run.Run, deps AddRunDeps) (AddRunResult, error) {
	id, err := deps.Runs.Add(ctx, r)
	if err != nil {
		return AddRunResult{}, fmt.Errorf("add run: %w", err)
	}
	r.ID = id

	entries := []logentry.LogEntry{
		{Date: r.Date, Activity: activity.RunningDistance, Amount: r.DistanceKm},
		{Date: r.Date, Activity: activity.RunningPace, Amount: r.Pace},
	}
	for i := range entries {
		entryID, err := deps.Log.Add(ctx, entries[i])
		if err != nil {
			return AddRunResult{Run: r}, fmt.Errorf("add run log entry: %w", err)
		}
		entries[i].ID = entryID
	}

	slog.Info("run_event", "event", "run_added", "id", r.ID, "distance_km", r.DistanceKm, "pace", r.Pace)
	return AddRunResult{Run: r, Entries: entries}, nil
}

// UpdateRunInput carries input for the update-run orchestrator.
type UpdateRunInput struct {
	ID     int64
	Column string
	Value  any
}

// UpdateRunDeps holds dependencies for UpdateRun.
type UpdateRunDeps struct {
	Runs RunUpdater
}

// ExecuteUpdateRun writes one editable column of a run.
// PRE: Column is one of run.EditableColumns
// POST: Column is written; pace is recomputed from stored values when distance or time changed
// INVARIANT: No write happens for a column outside the allow-list
func ExecuteUpdateRun(ctx context.Context, input UpdateRunInput, deps UpdateRunDeps) error {
	value, err := run.ParseColumnValue(input.Column, input.Value)
	if err != nil {
		return err
	}

	if err := deps.Runs.UpdateColumn(ctx, input.ID, input.Column, value); err != nil {
		return err
	}
	if run.AffectsPace(input.Column) {
		if err := deps.Runs.RecomputePace(ctx, input.ID); err != nil {
			return fmt.Errorf("recompute pace: %w", err)
		}
	}

	slog.Info("run_event", "event", "run_updated", "id", input.ID, "column", input.Column)
	return nil
}

// DeleteRunDeps holds dependencies for DeleteRun.
type DeleteRunDeps struct {
	Runs RunDeleter
}

// ExecuteDeleteRun removes a run row.
// POST: Returns run.ErrNotFound when nothing was deleted
// INVARIANT: Log entries written when the run was added are kept
func ExecuteDeleteRun(ctx context.Context, id int64, deps DeleteRunDeps) error {
	deleted, err := deps.Runs.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if !deleted {
		return run.ErrNotFound
	}
	slog.Info("run_event", "event", "run_deleted", "id", id)
	return nil
}

// RunStore is the run store surface used by the run editor.
type RunStore interface {
	RunWriter
	RunUpdater
	RunDeleter
}

// ReconcileRunsResult counts what the run editor batch did.
type ReconcileRunsResult struct {
	Deleted int `json:"deleted"`
	Updated int `json:"updated"`
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ReconcileRunsDeps holds dependencies for ReconcileRuns.
type ReconcileRunsDeps struct {
	Runs RunStore
	Log  LogWriter
	Now  func() time.Time
}

// ExecuteReconcileRuns applies a run editor batch: deletes, then per-column
// edits, then added rows.
// POST: Added rows without positive distance and time are skipped;
// failures are joined and do not stop the remaining operations
func ExecuteReconcileRuns(ctx context.Context, batch run.Batch, deps ReconcileRunsDeps) (ReconcileRunsResult, error) {
	var res ReconcileRunsResult
	var errs []error

	for _, id := range batch.Deleted {
		if err := ExecuteDeleteRun(ctx, id, DeleteRunDeps{Runs: deps.Runs}); err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("run %d: %w", id, err))
			continue
		}
		res.Deleted++
	}

	for id, fields := range batch.Edited {
		for column, value := range fields {
			err := ExecuteUpdateRun(ctx, UpdateRunInput{ID: id, Column: column, Value: value}, UpdateRunDeps{Runs: deps.Runs})
			switch {
			case errors.Is(err, run.ErrColumnNotAllowed), errors.Is(err, run.ErrInvalidColumnValue):
				res.Skipped++
			case err != nil:
				res.Failed++
				errs = append(errs, fmt.Errorf("run %d %s: %w", id, column, err))
			default:
				res.Updated++
			}
		}
	}

	today := period.FormatDate(now(deps.Now))
	addDeps := AddRunDeps{Runs: deps.Runs, Log: deps.Log, Now: deps.Now}
	for _, row := range batch.Added {
		r, ok := run.ParseNewRow(row, today)
		if !ok {
			res.Skipped++
			continue
		}
		if _, err := addRun(ctx, r, addDeps); err != nil {
			res.Failed++
			errs = append(errs, err)
			continue
		}
		res.Added++
	}

	slog.Info("run_event", "event", "run_batch", "deleted", res.Deleted, "updated", res.Updated,
		"added", res.Added, "skipped", res.Skipped, "failed", res.Failed)
	return res, errors.Join(errs...)
}
