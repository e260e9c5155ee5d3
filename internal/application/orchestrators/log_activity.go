package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainingpanel/internal/domain/logentry"
	"trainingpanel/internal/domain/period"
)

// LogWriter appends log entries.
type LogWriter interface {
	Add(ctx context.Context, e logentry.LogEntry) (int64, error)
}

// DefaultQuickAddAmount is logged when a quick-add carries no amount.
const DefaultQuickAddAmount = 1.0

// ErrZeroAmount rejects a quick-add that would not change any total.
var ErrZeroAmount = errors.New("amount must not be zero")

// QuickAddInput carries input for the quick-add orchestrator.
type QuickAddInput struct {
	Activity string
	Amount   *float64 // nil means DefaultQuickAddAmount
}

// QuickAddDeps holds dependencies for QuickAdd.
type QuickAddDeps struct {
	Log LogWriter
	Now func() time.Time
}

// ExecuteQuickAdd appends one log entry dated today.
// PRE: Activity is non-empty
// POST: Exactly one entry is persisted; the returned entry carries its id
func ExecuteQuickAdd(ctx context.Context, input QuickAddInput, deps QuickAddDeps) (logentry.LogEntry, error) {
	amount := DefaultQuickAddAmount
	if input.Amount != nil {
		amount = *input.Amount
	}
	if amount == 0 {
		return logentry.LogEntry{}, ErrZeroAmount
	}

	e := logentry.LogEntry{
		Date:     period.FormatDate(now(deps.Now)),
		Activity: strings.TrimSpace(input.Activity),
		Amount:   amount,
	}
	if err := e.Validate(); err != nil {
		return logentry.LogEntry{}, err
	}

	id, err := deps.Log.Add(ctx, e)
	if err != nil {
		return logentry.LogEntry{}, fmt.Errorf("quick add: %w", err)
	}
	e.ID = id

	slog.Info("log_event", "event", "quick_add", "activity", e.Activity, "amount", e.Amount)
	return e, nil
}

// CorrectionInput carries input for the correction orchestrator. Current is
// the state the caller displayed; Target is the value the user typed.
type CorrectionInput struct {
	Activity string
	Current  float64
	Target   float64
}

// CorrectionResult reports the delta entry, if any was written.
type CorrectionResult struct {
	Entry   logentry.LogEntry
	Written bool
}

// CorrectionDeps holds dependencies for Correction.
type CorrectionDeps struct {
	Log LogWriter
	Now func() time.Time
}

// ExecuteCorrection moves an activity's state to Target by appending the
// signed difference.
// PRE: Activity is non-empty
// POST: One entry with Amount = Target - Current when they differ, none otherwise
// INVARIANT: Existing entries are never rewritten
func ExecuteCorrection(ctx context.Context, input CorrectionInput, deps CorrectionDeps) (CorrectionResult, error) {
	delta, changed := logentry.Delta(input.Current, input.Target)
	if !changed {
		return CorrectionResult{}, nil
	}

	e := logentry.LogEntry{
		Date:     period.FormatDate(now(deps.Now)),
		Activity: strings.TrimSpace(input.Activity),
		Amount:   delta,
	}
	if err := e.Validate(); err != nil {
		return CorrectionResult{}, err
	}

	id, err := deps.Log.Add(ctx, e)
	if err != nil {
		return CorrectionResult{}, fmt.Errorf("correction: %w", err)
	}
	e.ID = id

	slog.Info("log_event", "event", "correction", "activity", e.Activity, "from", input.Current, "to", input.Target, "delta", delta)
	return CorrectionResult{Entry: e, Written: true}, nil
}

// UndoLogStore reads and removes the most recent log entry.
type UndoLogStore interface {
	Last(ctx context.Context) (logentry.LogEntry, error)
	Delete(ctx context.Context, id int64) error
}

// UndoLastLogResult describes the removed entry. OK is false when the log was empty.
type UndoLastLogResult struct {
	Entry       logentry.LogEntry
	Description string
	OK          bool
}

// UndoLastLogDeps holds dependencies for UndoLastLog.
type UndoLastLogDeps struct {
	Log UndoLogStore
}

// ExecuteUndoLastLog removes the entry with the highest id.
// POST: At most one entry is deleted; an empty log is not an error
func ExecuteUndoLastLog(ctx context.Context, deps UndoLastLogDeps) (UndoLastLogResult, error) {
	last, err := deps.Log.Last(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return UndoLastLogResult{}, nil
	}
	if err != nil {
		return UndoLastLogResult{}, fmt.Errorf("undo: %w", err)
	}

	if err := deps.Log.Delete(ctx, last.ID); err != nil {
		return UndoLastLogResult{}, fmt.Errorf("undo: %w", err)
	}

	slog.Info("log_event", "event", "undo_last", "id", last.ID, "activity", last.Activity, "amount", last.Amount)
	return UndoLastLogResult{Entry: last, Description: last.Describe(), OK: true}, nil
}
