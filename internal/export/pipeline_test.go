package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/timeline"
	"github.com/metalagman/gantt/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type stubRenderer struct {
	format  Format
	mime    string
	payload []byte
	err     error
	panics  bool
}

func (s stubRenderer) Format() Format   { return s.format }
func (s stubRenderer) MIMEType() string { return s.mime }

func (s stubRenderer) Render(context.Context, timeline.Scene) ([]byte, error) {
	if s.panics {
		panic("boom")
	}
	return s.payload, s.err
}

func sampleScene(t *testing.T) timeline.Scene {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC) }
	rows := []view.Row{
		{ID: "t1", Name: "Design", StartDate: model.NewDate(2024, 1, 1), EndDate: model.NewDate(2024, 1, 5),
			Resource: "Alice", Status: model.StatusDone, Priority: model.PriorityHigh},
		{ID: "t2", Name: "Build <core>", StartDate: model.NewDate(2024, 1, 6), EndDate: model.NewDate(2024, 1, 10),
			Resource: "Bob", Status: model.StatusInProgress, Priority: model.PriorityCritical},
	}
	return timeline.NewEngine(timeline.WithClock(clock)).Layout(rows, timeline.ColorByStatus, view.SortStartDate, true)
}

func TestPipelineDefaultOrder(t *testing.T) {
	p := New(Options{})
	assert.Equal(t, []Format{FormatSVG, FormatPNG, FormatHTML, FormatScene}, p.Formats())
}

func TestPipelinePrefersVector(t *testing.T) {
	res := New(Options{}).Export(context.Background(), sampleScene(t))
	assert.Equal(t, FormatSVG, res.Format)
	assert.Equal(t, "image/svg+xml", res.MIMEType)
	assert.Empty(t, res.Failures)
	body := string(res.Payload)
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `data-task="t1"`)
	assert.Contains(t, body, "Build &lt;core&gt;")
	assert.Contains(t, body, "stroke-dasharray:6,4")
	assert.Contains(t, body, "#B71C1C")
}

func TestPipelineFallsBackToRaster(t *testing.T) {
	failing := stubRenderer{format: FormatSVG, mime: mimeSVG, err: errors.New("no vector engine")}
	p := NewPipeline(failing, PNG{Width: 200, Height: 100, Scale: 1}, HTML{})

	res := p.Export(context.Background(), sampleScene(t))
	assert.Equal(t, "image/png", res.MIMEType)
	assert.Equal(t, FormatPNG, res.Format)
	assert.True(t, bytes.HasPrefix(res.Payload, pngMagic))
	require.Len(t, res.Failures, 1)
	var rerr *RenderError
	require.ErrorAs(t, res.Failures[0], &rerr)
	assert.Equal(t, FormatSVG, rerr.Stage)
}

func TestPipelineDisabledStagesAreSkipped(t *testing.T) {
	p := New(Options{Disabled: []Format{FormatSVG, FormatPNG}})
	res := p.Export(context.Background(), sampleScene(t))
	assert.Equal(t, FormatHTML, res.Format)
	require.Len(t, res.Failures, 2)
	assert.ErrorIs(t, res.Failures[0], ErrUnavailable)
	assert.ErrorIs(t, res.Failures[1], ErrUnavailable)
	assert.Contains(t, string(res.Payload), "Download PNG")
	assert.Contains(t, string(res.Payload), `"task_id":"t2"`)
}

func TestPipelineAllStagesFail(t *testing.T) {
	p := NewPipeline(
		stubRenderer{format: FormatSVG, err: errors.New("svg down")},
		stubRenderer{format: FormatPNG, panics: true},
		stubRenderer{format: FormatHTML, payload: nil},
	)
	res := p.Export(context.Background(), timeline.Scene{Title: "Broken <chart>"})
	assert.Equal(t, FormatFailure, res.Format)
	assert.Equal(t, mimeHTML, res.MIMEType)
	assert.Len(t, res.Failures, 3)
	body := string(res.Payload)
	assert.Contains(t, body, failureNotice)
	assert.Contains(t, body, "Broken &lt;chart&gt;")
	assert.Contains(t, body, "svg down")
	assert.Contains(t, body, "panic: boom")
	assert.Contains(t, body, "no output")
}

func TestPipelineEmptyChainReturnsFailureDocument(t *testing.T) {
	res := NewPipeline().Export(context.Background(), timeline.Scene{Title: "x"})
	assert.Equal(t, FormatFailure, res.Format)
	assert.NotEmpty(t, res.Payload)
}

func TestExportFrom(t *testing.T) {
	p := New(Options{})
	res, err := p.ExportFrom(context.Background(), sampleScene(t), FormatScene)
	require.NoError(t, err)
	assert.Equal(t, FormatScene, res.Format)
	assert.Contains(t, string(res.Payload), "task_id: t1")
	assert.Equal(t, ".html", res.Extension())

	_, err = p.ExportFrom(context.Background(), sampleScene(t), FormatText)
	assert.Error(t, err)
}

func TestSVGRendersEmptyScene(t *testing.T) {
	scene := timeline.NewEngine().Layout(nil, "", view.SortNone, false)
	out, err := SVG{}.Render(context.Background(), scene)
	require.NoError(t, err)
	assert.Contains(t, string(out), "No tasks to display")
}

func TestSVGRejectsInvalidCanvas(t *testing.T) {
	_, err := SVG{}.Render(context.Background(), timeline.Scene{})
	assert.Error(t, err)
}

func TestPNGDefaults(t *testing.T) {
	w, h, scale := PNG{}.dims()
	assert.Equal(t, DefaultRasterWidth, w)
	assert.Equal(t, DefaultRasterHeight, h)
	assert.InDelta(t, float64(DefaultRasterScale), scale, 0)
}

func TestTerminalRender(t *testing.T) {
	out, err := Terminal{Width: 20}.Render(context.Background(), sampleScene(t))
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "Design")
	assert.Contains(t, text, "! Build <core>")
	assert.Contains(t, text, "█")
	assert.True(t, strings.Contains(text, "Done") && strings.Contains(text, "In progress"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PNG ")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	_, err = ParseFormat("failure")
	assert.Error(t, err)
}
