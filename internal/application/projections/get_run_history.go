package projections

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"trainingpanel/internal/application/listutil"
)

// noteRenderer turns run notes into HTML. Raw HTML in a note is escaped
// because WithUnsafe is not set.
var noteRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RunView is a stored run with its note rendered.
type RunView struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"`
	DistanceKm float64 `json:"distance"`
	TimeMin    float64 `json:"time_min"`
	Pace       float64 `json:"pace"`
	Note       string  `json:"note"`
	NoteHTML   string  `json:"note_html"`
}

// RunHistoryQuery carries input for the run history projection.
type RunHistoryQuery struct {
	Page listutil.PageParams
}

// RunHistoryResult carries one page of runs, newest first.
type RunHistoryResult struct {
	Runs []RunView         `json:"runs"`
	Page listutil.PageInfo `json:"page"`
}

// RunHistoryDeps holds dependencies for the run history projection.
type RunHistoryDeps struct {
	Runs RunLister
}

// QueryRunHistory returns a page of runs ordered by date then id, newest first.
// POST: Page is clamped to the last page when it is out of range
func QueryRunHistory(ctx context.Context, query RunHistoryQuery, deps RunHistoryDeps) (RunHistoryResult, error) {
	total, err := deps.Runs.Count(ctx)
	if err != nil {
		return RunHistoryResult{}, fmt.Errorf("count runs: %w", err)
	}
	page := listutil.NewPageInfo(query.Page, total)

	runs, err := deps.Runs.List(ctx, page.PerPage, page.Offset())
	if err != nil {
		return RunHistoryResult{}, fmt.Errorf("list runs: %w", err)
	}

	views := make([]RunView, 0, len(runs))
	for _, r := range runs {
		views = append(views, RunView{
			ID:         r.ID,
			Date:       r.Date,
			DistanceKm: r.DistanceKm,
			TimeMin:    r.TimeMin,
			Pace:       r.Pace,
			Note:       r.Note,
			NoteHTML:   renderNote(r.Note),
		})
	}
	return RunHistoryResult{Runs: views, Page: page}, nil
}

func renderNote(note string) string {
	if note == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := noteRenderer.Convert([]byte(note), &buf); err != nil {
		return html.EscapeString(note)
	}
	return buf.String()
}
