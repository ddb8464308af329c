package timeline

import (
	"testing"
	"time"

	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id, name string, start, end int, res string, st model.Status, pr model.Priority) view.Row {
	r := view.Row{
		ID: id, Name: name,
		StartDate: model.NewDate(2024, 1, start), EndDate: model.NewDate(2024, 1, end),
		Resource: res, Status: st, Priority: pr,
	}
	r.Duration = r.StartDate.DaysUntil(r.EndDate) + 1
	return r
}

func sampleRows() []view.Row {
	return []view.Row{
		row("b", "Build", 6, 20, "Bob", model.StatusInProgress, model.PriorityCritical),
		row("a", "Design", 1, 5, "Alice", model.StatusDone, model.PriorityHigh),
		row("c", "Test", 15, 25, "Alice", model.StatusNotStarted, model.PriorityLow),
	}
}

func fixedEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC) }))
}

func TestHeight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MinHeight, Height(0))
	assert.Equal(t, MinHeight, Height(15))
	assert.Equal(t, 20*RowHeight, Height(20))
}

func TestLayoutEmpty(t *testing.T) {
	t.Parallel()

	s := fixedEngine().Layout(nil, "", view.SortStartDate, true)
	assert.True(t, s.Empty)
	assert.Equal(t, ColorByStatus, s.ColorBy)
	assert.Empty(t, s.Bars)
	assert.Nil(t, s.Today)
	assert.Equal(t, MinHeight, s.Height)
	assert.Equal(t, 0, s.Days())
}

func TestLayoutSortsLanesAndAxis(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	s := fixedEngine().Layout(rows, ColorByStatus, view.SortStartDate, false)

	assert.Equal(t, []string{"Design", "Build", "Test"}, s.Lanes)
	assert.Equal(t, "b", rows[0].ID, "input rows must not be reordered")
	for i, b := range s.Bars {
		assert.Equal(t, i, b.Lane)
	}
	assert.Equal(t, model.NewDate(2024, 1, 1), s.Start)
	assert.Equal(t, model.NewDate(2024, 1, 26), s.End)
	assert.Equal(t, 25, s.Days())
	assert.Empty(t, s.Outlines)

	require.NotNil(t, s.Today)
	assert.Equal(t, model.NewDate(2024, 1, 10), s.Today.Date)
	assert.True(t, s.Contains(s.Today.Date))
	assert.False(t, s.Contains(s.End))
}

func TestLayoutColorModes(t *testing.T) {
	t.Parallel()

	e := fixedEngine()
	byStatus := e.Layout(sampleRows(), ColorByStatus, view.SortNone, false)
	assert.Equal(t, StatusColor(model.StatusInProgress), byStatus.Bars[0].Color)
	assert.Equal(t, "In progress", byStatus.Bars[0].Group)
	assert.Len(t, byStatus.Legend, 3)

	byPriority := e.Layout(sampleRows(), ColorByPriority, view.SortNone, false)
	assert.Equal(t, PriorityColor(model.PriorityCritical), byPriority.Bars[0].Color)
	assert.Equal(t, "Critical", byPriority.Bars[0].Group)

	byResource := e.Layout(sampleRows(), ColorByResource, view.SortNone, false)
	assert.Equal(t, qualitative[0], byResource.Bars[0].Color)
	assert.Equal(t, qualitative[1], byResource.Bars[1].Color)
	assert.Equal(t, byResource.Bars[1].Color, byResource.Bars[2].Color)
	assert.Equal(t, []LegendEntry{{Group: "Bob", Color: qualitative[0]}, {Group: "Alice", Color: qualitative[1]}}, byResource.Legend)

	assert.Equal(t, fallbackColor, StatusColor("paused"))
}

func TestLayoutCriticalOutline(t *testing.T) {
	t.Parallel()

	s := fixedEngine().Layout(sampleRows(), ColorByStatus, view.SortPriority, true)
	require.Len(t, s.Outlines, 1)
	o := s.Outlines[0]
	assert.Equal(t, 2, o.Lane)
	assert.Equal(t, CriticalOutline, o.Color)
	assert.Equal(t, CriticalStroke, o.Stroke)
	assert.Equal(t, "Build", s.Lanes[o.Lane])
}

func TestParseColorBy(t *testing.T) {
	t.Parallel()

	c, err := ParseColorBy("Resource")
	require.NoError(t, err)
	assert.Equal(t, ColorByResource, c)
	c, err = ParseColorBy("")
	require.NoError(t, err)
	assert.Equal(t, ColorByStatus, c)
	_, err = ParseColorBy("rainbow")
	assert.Error(t, err)
}

func TestEngineOptions(t *testing.T) {
	t.Parallel()

	s := NewEngine(WithTitle("Roadmap"), WithWidth(800), WithTitle("")).Layout(nil, ColorByStatus, view.SortNone, false)
	assert.Equal(t, "Roadmap", s.Title)
	assert.Equal(t, 800, s.Width)
	assert.Equal(t, DefaultXTitle, s.XTitle)
}
