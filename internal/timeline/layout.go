package timeline

import (
	"time"

	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/view"
)

const (
	DefaultWidth    = 1200
	MinHeight       = 600
	RowHeight       = 40
	CriticalOutline = "#B71C1C"
	CriticalStroke  = 2
	TodayLabel      = "Today"
	TodayColor      = "#000000"
	TodayStroke     = 2
	DefaultTitle    = "Gantt chart"
	DefaultXTitle   = "Dates"
	DefaultYTitle   = "Tasks"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the wall clock read once per Layout call for the today marker.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(e *Engine) {
		if title != "" {
			e.title = title
		}
	}
}

// WithWidth overrides the nominal scene width.
func WithWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.width = width
		}
	}
}

// Engine lays out Gantt scenes.
type Engine struct {
	now   func() time.Time
	title string
	width int
}

// NewEngine returns an engine using the system clock by default.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		title: DefaultTitle,
		width: DefaultWidth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Height returns the scene height for n rows.
func Height(n int) int {
	return max(MinHeight, n*RowHeight)
}

// Layout sorts a copy of rows with the table's policy and builds the scene.
// Empty input yields an empty placeholder scene.
func (e *Engine) Layout(rows []view.Row, colorBy ColorBy, sortBy view.SortKey, highlightCritical bool) Scene {
	if colorBy == "" {
		colorBy = ColorByStatus
	}
	scene := Scene{
		Title:     e.title,
		XTitle:    DefaultXTitle,
		YTitle:    DefaultYTitle,
		Width:     e.width,
		Height:    Height(len(rows)),
		RowHeight: RowHeight,
		ColorBy:   colorBy,
		Lanes:     []string{},
		Bars:      []Bar{},
		Outlines:  []Outline{},
		Legend:    []LegendEntry{},
	}
	if len(rows) == 0 {
		scene.Empty = true
		return scene
	}

	sorted := append([]view.Row(nil), rows...)
	view.SortRows(sorted, sortBy)

	var resources resourcePalette
	legendSeen := map[string]struct{}{}
	scene.Start = sorted[0].StartDate
	scene.End = sorted[0].EndDate

	for lane, row := range sorted {
		group, color := e.colorOf(row, colorBy, &resources)
		scene.Lanes = append(scene.Lanes, row.Name)
		scene.Bars = append(scene.Bars, Bar{
			Lane:        lane,
			TaskID:      row.ID,
			Label:       row.Name,
			Start:       row.StartDate,
			End:         row.EndDate,
			Color:       color,
			Group:       group,
			Resource:    row.Resource,
			Status:      row.Status,
			Priority:    row.Priority,
			Description: row.Description,
		})
		if _, ok := legendSeen[group]; !ok {
			legendSeen[group] = struct{}{}
			scene.Legend = append(scene.Legend, LegendEntry{Group: group, Color: color})
		}
		if highlightCritical && row.Priority == model.PriorityCritical {
			scene.Outlines = append(scene.Outlines, Outline{
				Lane:   lane,
				Start:  row.StartDate,
				End:    row.EndDate,
				Color:  CriticalOutline,
				Stroke: CriticalStroke,
			})
		}
		if row.StartDate.Before(scene.Start) {
			scene.Start = row.StartDate
		}
		if row.EndDate.After(scene.End) {
			scene.End = row.EndDate
		}
	}
	// Bars cover their end day, so the axis runs to the day after the last end.
	scene.End = scene.End.AddDays(1)

	today := model.DateOf(e.now())
	scene.Today = &Marker{
		Date:   today,
		Label:  TodayLabel,
		Color:  TodayColor,
		Stroke: TodayStroke,
		Dashed: true,
	}
	return scene
}

func (e *Engine) colorOf(row view.Row, colorBy ColorBy, resources *resourcePalette) (string, string) {
	switch colorBy {
	case ColorByPriority:
		return row.Priority.Label(), PriorityColor(row.Priority)
	case ColorByResource:
		return row.Resource, resources.color(row.Resource)
	default:
		return row.Status.Label(), StatusColor(row.Status)
	}
}
