package planner

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies a reconciliation operation variant.
type Kind string

// Operation variants
const (
	KindAdd    Kind = "add"
	KindEdit   Kind = "edit"
	KindDelete Kind = "delete"
)

// Domain errors
var (
	ErrUnknownKind  = errors.New("unknown planner operation")
	ErrMissingName  = errors.New("operation requires an activity name")
	ErrEmptyChanges = errors.New("edit carries no changes")
)

// Row is one planner table row: an activity config joined with its
// current-week goal.
type Row struct {
	Activity   string  `json:"activity"`
	Category   string  `json:"category"`
	IsBadHabit bool    `json:"is_bad_habit"`
	WeeklyGoal float64 `json:"weekly_goal"`
}

// NewActivity carries the fields of an added row.
type NewActivity struct {
	Name       string
	Category   string
	IsBadHabit bool
	WeeklyGoal float64
}

// Normalize trims name and category.
func (n *NewActivity) Normalize() {
	n.Name = strings.TrimSpace(n.Name)
	n.Category = strings.TrimSpace(n.Category)
}

// Complete reports whether the row has both a name and a category after trimming.
func (n NewActivity) Complete() bool {
	return strings.TrimSpace(n.Name) != "" && strings.TrimSpace(n.Category) != ""
}

// Changes carries the edited fields of an existing row. Nil means unchanged.
type Changes struct {
	Category   *string
	IsBadHabit *bool
	WeeklyGoal *float64
}

// ConfigChanged reports whether the activity config row must be updated.
func (c Changes) ConfigChanged() bool {
	return c.Category != nil || c.IsBadHabit != nil
}

// Empty reports whether no field changed.
func (c Changes) Empty() bool {
	return !c.ConfigChanged() && c.WeeklyGoal == nil
}

// Op is one reconciliation operation keyed by the stable activity name.
// Add uses New; Edit uses Name and Changes; Delete uses Name.
type Op struct {
	Kind    Kind
	Name    string
	New     NewActivity
	Changes Changes
}

// Add builds an add operation.
func Add(n NewActivity) Op { return Op{Kind: KindAdd, Name: n.Name, New: n} }

// Edit builds an edit operation.
func Edit(name string, c Changes) Op { return Op{Kind: KindEdit, Name: name, Changes: c} }

// Delete builds a delete operation.
func Delete(name string) Op { return Op{Kind: KindDelete, Name: name} }

// Validate checks the shape of the operation, not whether the row is usable.
// An Add with a blank name is still valid here; reconciliation skips it.
func (o Op) Validate() error {
	switch o.Kind {
	case KindAdd:
		return nil
	case KindEdit:
		if strings.TrimSpace(o.Name) == "" {
			return ErrMissingName
		}
		if o.Changes.Empty() {
			return ErrEmptyChanges
		}
		return nil
	case KindDelete:
		if strings.TrimSpace(o.Name) == "" {
			return ErrMissingName
		}
		return nil
	default:
		return ErrUnknownKind
	}
}

// Request is an ordered reconciliation batch.
type Request struct {
	Ops []Op
}

// Phased returns the operations ordered deletes, then edits, then adds.
// Relative order inside a phase is preserved.
// POST: len(result) == len(r.Ops)
func (r Request) Phased() []Op {
	out := make([]Op, len(r.Ops))
	copy(out, r.Ops)
	sort.SliceStable(out, func(i, j int) bool {
		return phase(out[i].Kind) < phase(out[j].Kind)
	})
	return out
}

func phase(k Kind) int {
	switch k {
	case KindDelete:
		return 0
	case KindEdit:
		return 1
	case KindAdd:
		return 2
	default:
		return 3
	}
}

// Editor column names used by the spreadsheet-style planner editor.
const (
	FieldActivity   = "activity"
	FieldCategory   = "category"
	FieldIsBadHabit = "is_bad_habit"
	FieldWeeklyGoal = "weekly_goal"
)

// EditorDiff is the raw diff produced by the planner editor: row indices
// point into the snapshot the editor was rendered from.
type EditorDiff struct {
	AddedRows   []map[string]any       `json:"added_rows"`
	EditedRows  map[int]map[string]any `json:"edited_rows"`
	DeletedRows []int                  `json:"deleted_rows"`
}

// Submission is what the planner editor posts back: the rows it rendered and
// its diff against them. Indices in Diff are only meaningful against Snapshot.
type Submission struct {
	Snapshot []Row      `json:"snapshot"`
	Diff     EditorDiff `json:"diff"`
}

// NeedsSnapshot reports whether the diff references rows by index.
func (s Submission) NeedsSnapshot() bool {
	return len(s.Diff.DeletedRows) > 0 || len(s.Diff.EditedRows) > 0
}

// Resolve maps the diff onto activity names using the submitted snapshot.
func (s Submission) Resolve() Resolution {
	return ResolveEditorDiff(s.Snapshot, s.Diff)
}

// Resolution is the outcome of resolving an editor diff.
type Resolution struct {
	Request Request
	Skipped int // out-of-range indices and malformed rows
}

// ResolveEditorDiff maps transient row indices onto activity names using
// the snapshot, and converts raw field maps into typed operations.
// PRE: snapshot is the table the editor rendered
// POST: Indices outside the snapshot and malformed rows are counted in Skipped
func ResolveEditorDiff(snapshot []Row, diff EditorDiff) Resolution {
	var res Resolution

	for _, idx := range diff.DeletedRows {
		if idx < 0 || idx >= len(snapshot) {
			res.Skipped++
			continue
		}
		res.Request.Ops = append(res.Request.Ops, Delete(snapshot[idx].Activity))
	}

	indices := make([]int, 0, len(diff.EditedRows))
	for idx := range diff.EditedRows {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		if idx < 0 || idx >= len(snapshot) {
			res.Skipped++
			continue
		}
		changes, ok := parseChanges(snapshot[idx], diff.EditedRows[idx])
		if !ok {
			res.Skipped++
			continue
		}
		if changes.Empty() {
			continue
		}
		res.Request.Ops = append(res.Request.Ops, Edit(snapshot[idx].Activity, changes))
	}

	for _, fields := range diff.AddedRows {
		n, ok := parseNewActivity(fields)
		if !ok {
			res.Skipped++
			continue
		}
		res.Request.Ops = append(res.Request.Ops, Add(n))
	}
	return res
}

// parseChanges keeps only fields that differ from the snapshot row.
func parseChanges(row Row, fields map[string]any) (Changes, bool) {
	var c Changes
	if v, present := fields[FieldCategory]; present {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return Changes{}, false
		}
		s = strings.TrimSpace(s)
		if s != row.Category {
			c.Category = &s
		}
	}
	if v, present := fields[FieldIsBadHabit]; present {
		b, ok := ParseBool(v)
		if !ok {
			return Changes{}, false
		}
		if b != row.IsBadHabit {
			c.IsBadHabit = &b
		}
	}
	if v, present := fields[FieldWeeklyGoal]; present {
		f, ok := ParseNumber(v)
		if !ok || f < 0 {
			return Changes{}, false
		}
		if f != row.WeeklyGoal {
			c.WeeklyGoal = &f
		}
	}
	return c, true
}

func parseNewActivity(fields map[string]any) (NewActivity, bool) {
	var n NewActivity
	if v, ok := fields[FieldActivity].(string); ok {
		n.Name = v
	}
	if v, ok := fields[FieldCategory].(string); ok {
		n.Category = v
	}
	if v, present := fields[FieldIsBadHabit]; present && v != nil {
		b, ok := ParseBool(v)
		if !ok {
			return NewActivity{}, false
		}
		n.IsBadHabit = b
	}
	if v, present := fields[FieldWeeklyGoal]; present && v != nil {
		f, ok := ParseNumber(v)
		if !ok {
			return NewActivity{}, false
		}
		n.WeeklyGoal = f
	}
	n.Normalize()
	if !n.Complete() {
		return NewActivity{}, false
	}
	return n, true
}

// ParseNumber accepts JSON numbers and numeric strings.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true
		}
		var err error
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseBool accepts JSON booleans, 0/1 and the usual string spellings.
func ParseBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case float64:
		return x != 0, x == 0 || x == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off", "":
			return false, true
		}
	}
	return false, false
}
