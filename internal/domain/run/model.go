package run

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"trainingpanel/internal/domain/period"
)

// Editable columns. The allow-list is the only set of columns UpdateColumn
// may touch; Pace is derived and never written directly.
const (
	ColumnDistance = "distance"
	ColumnTimeMin  = "time_min"
	ColumnNote     = "note"
	ColumnDate     = "date"
)

// EditableColumns lists the allow-listed columns.
var EditableColumns = []string{ColumnDistance, ColumnTimeMin, ColumnNote, ColumnDate}

// MaxNoteLength caps the free-text note.
const MaxNoteLength = 2000

// Domain errors
var (
	ErrInvalidDate        = errors.New("date must be YYYY-MM-DD")
	ErrNegativeDistance   = errors.New("distance cannot be negative")
	ErrNegativeTime       = errors.New("time cannot be negative")
	ErrNoteTooLong        = errors.New("note cannot exceed 2000 characters")
	ErrColumnNotAllowed   = errors.New("column is not editable")
	ErrInvalidColumnValue = errors.New("invalid value for column")
	ErrNotFound           = errors.New("run not found")
)

// Run is one recorded run. Pace is minutes per kilometre.
type Run struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"` // YYYY-MM-DD
	DistanceKm float64 `json:"distance"`
	TimeMin    float64 `json:"time_min"`
	Pace       float64 `json:"pace"`
	Note       string  `json:"note"`
}

// Validate checks if the Run has valid data.
// PRE: Run struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Run) Validate() error {
	if _, err := period.ParseDate(r.Date); err != nil {
		return ErrInvalidDate
	}
	if r.DistanceKm < 0 || math.IsNaN(r.DistanceKm) {
		return ErrNegativeDistance
	}
	if r.TimeMin < 0 || math.IsNaN(r.TimeMin) {
		return ErrNegativeTime
	}
	if len(r.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// ComputePace returns time/distance, or 0 when distance is not positive.
func ComputePace(distanceKm, timeMin float64) float64 {
	if distanceKm > 0 {
		return timeMin / distanceKm
	}
	return 0
}

// DerivePace sets Pace from DistanceKm and TimeMin.
// POST: Pace == ComputePace(DistanceKm, TimeMin)
func (r *Run) DerivePace() {
	r.Pace = ComputePace(r.DistanceKm, r.TimeMin)
}

// IsEditableColumn reports whether column is on the allow-list.
func IsEditableColumn(column string) bool {
	for _, c := range EditableColumns {
		if c == column {
			return true
		}
	}
	return false
}

// AffectsPace reports whether writing column requires a pace recompute.
func AffectsPace(column string) bool {
	return column == ColumnDistance || column == ColumnTimeMin
}

// ParseColumnValue coerces a raw editor value into the typed value stored
// for column: float64 for distance/time, string for note/date.
// PRE: raw comes from JSON decoding or a form field
// POST: Returns ErrColumnNotAllowed or ErrInvalidColumnValue on bad input
func ParseColumnValue(column string, raw any) (any, error) {
	if !IsEditableColumn(column) {
		return nil, ErrColumnNotAllowed
	}
	switch column {
	case ColumnDistance, ColumnTimeMin:
		f, err := toFloat(raw)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%w %s: %v", ErrInvalidColumnValue, column, raw)
		}
		return f, nil
	case ColumnDate:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w %s: %v", ErrInvalidColumnValue, column, raw)
		}
		d, err := period.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrInvalidColumnValue, column, raw)
		}
		return period.FormatDate(d), nil
	default:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w %s: %v", ErrInvalidColumnValue, column, raw)
		}
		if len(s) > MaxNoteLength {
			return nil, ErrNoteTooLong
		}
		return s, nil
	}
}

func toFloat(raw any) (float64, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not finite")
	}
	return f, nil
}

// Batch is a run editor submission keyed by stored run ids.
type Batch struct {
	Added   []map[string]any         `json:"added_rows"`
	Edited  map[int64]map[string]any `json:"edited_rows"`
	Deleted []int64                  `json:"deleted_rows"`
}

// ParseNewRow builds a Run from an added editor row.
// Rows without a positive distance and a positive time are rejected, as are
// rows whose date or note cannot be parsed. A missing date means today.
// POST: ok is false for rows that must be skipped; Pace is derived otherwise
func ParseNewRow(fields map[string]any, today string) (Run, bool) {
	r := Run{Date: today}
	dist, err := toFloat(fields[ColumnDistance])
	if err != nil || dist <= 0 {
		return Run{}, false
	}
	t, err := toFloat(fields[ColumnTimeMin])
	if err != nil || t <= 0 {
		return Run{}, false
	}
	r.DistanceKm, r.TimeMin = dist, t
	if raw, ok := fields[ColumnDate]; ok && raw != nil && raw != "" {
		v, err := ParseColumnValue(ColumnDate, raw)
		if err != nil {
			return Run{}, false
		}
		r.Date = v.(string)
	}
	if raw, ok := fields[ColumnNote]; ok && raw != nil {
		v, err := ParseColumnValue(ColumnNote, raw)
		if err != nil {
			return Run{}, false
		}
		r.Note = v.(string)
	}
	r.DerivePace()
	return r, true
}
