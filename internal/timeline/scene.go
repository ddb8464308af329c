// Package timeline turns display rows into a renderer-agnostic Gantt scene.
package timeline

import "github.com/metalagman/gantt/internal/model"

// Scene is everything a renderer needs to draw one chart.
type Scene struct {
	Title     string        `json:"title"           yaml:"title"`
	XTitle    string        `json:"x_title"         yaml:"x_title"`
	YTitle    string        `json:"y_title"         yaml:"y_title"`
	Width     int           `json:"width"           yaml:"width"`
	Height    int           `json:"height"          yaml:"height"`
	RowHeight int           `json:"row_height"      yaml:"row_height"`
	ColorBy   ColorBy       `json:"color_by"        yaml:"color_by"`
	Start     model.Date    `json:"start"           yaml:"start"`
	End       model.Date    `json:"end"             yaml:"end"`
	Lanes     []string      `json:"lanes"           yaml:"lanes"`
	Bars      []Bar         `json:"bars"            yaml:"bars"`
	Outlines  []Outline     `json:"outlines"        yaml:"outlines"`
	Legend    []LegendEntry `json:"legend"          yaml:"legend"`
	Today     *Marker       `json:"today,omitempty" yaml:"today,omitempty"`
	Empty     bool          `json:"empty"           yaml:"empty"`
}

// Bar is one task. Lane 0 is drawn at the top.
type Bar struct {
	Lane        int            `json:"lane"        yaml:"lane"`
	TaskID      string         `json:"task_id"     yaml:"task_id"`
	Label       string         `json:"label"       yaml:"label"`
	Start       model.Date     `json:"start"       yaml:"start"`
	End         model.Date     `json:"end"         yaml:"end"`
	Color       string         `json:"color"       yaml:"color"`
	Group       string         `json:"group"       yaml:"group"`
	Resource    string         `json:"resource"    yaml:"resource"`
	Status      model.Status   `json:"status"      yaml:"status"`
	Priority    model.Priority `json:"priority"    yaml:"priority"`
	Description string         `json:"description" yaml:"description"`
}

// Outline is a stroke drawn beneath a bar's fill.
type Outline struct {
	Lane   int        `json:"lane"   yaml:"lane"`
	Start  model.Date `json:"start"  yaml:"start"`
	End    model.Date `json:"end"    yaml:"end"`
	Color  string     `json:"color"  yaml:"color"`
	Stroke int        `json:"stroke" yaml:"stroke"`
}

// Marker is a dashed vertical line with a label.
type Marker struct {
	Date   model.Date `json:"date"   yaml:"date"`
	Label  string     `json:"label"  yaml:"label"`
	Color  string     `json:"color"  yaml:"color"`
	Stroke int        `json:"stroke" yaml:"stroke"`
	Dashed bool       `json:"dashed" yaml:"dashed"`
}

// LegendEntry maps a colour group to its colour.
type LegendEntry struct {
	Group string `json:"group" yaml:"group"`
	Color string `json:"color" yaml:"color"`
}

// Days returns the number of whole days covered by the x axis.
func (s Scene) Days() int {
	if s.Start.IsZero() || s.End.IsZero() {
		return 0
	}
	return s.Start.DaysUntil(s.End)
}

// Contains reports whether d falls inside the x axis.
func (s Scene) Contains(d model.Date) bool {
	return !d.Before(s.Start) && d.Before(s.End)
}
