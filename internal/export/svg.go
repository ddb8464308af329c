package export

import (
	"bytes"
	"context"
	"fmt"
	"html"

	svg "github.com/ajstarks/svgo"
	"github.com/metalagman/gantt/internal/timeline"
)

const mimeSVG = "image/svg+xml"

// SVG renders the scene as a standalone vector image.
type SVG struct{}

// Format implements Renderer.
func (SVG) Format() Format { return FormatSVG }

// MIMEType implements Renderer.
func (SVG) MIMEType() string { return mimeSVG }

// Render implements Renderer.
func (SVG) Render(_ context.Context, s timeline.Scene) ([]byte, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", s.Width, s.Height)
	}
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(s.Width, s.Height)
	canvas.Title(s.Title)
	canvas.Rect(0, 0, s.Width, s.Height, "fill:#ffffff")
	canvas.Text(s.Width/2, marginTop/2, s.Title, "text-anchor:middle;font-family:sans-serif;font-size:20px;font-weight:bold")

	if s.Empty {
		canvas.Text(s.Width/2, s.Height/2, "No tasks to display", "text-anchor:middle;font-family:sans-serif;font-size:14px;fill:#666666")
		canvas.End()
		return buf.Bytes(), nil
	}

	f := newFrame(s, s.Width, s.Height)
	drawSVGAxes(canvas, s, f)

	// Outlines sit beneath the bar fill.
	for _, o := range s.Outlines {
		x, y, w, h := f.barBox(o.Lane, o.Start, o.End)
		pad := float64(o.Stroke) * 2
		canvas.Rect(px(x-pad), px(y-pad), px(w+2*pad), px(h+2*pad),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", o.Color, o.Stroke))
	}
	for _, b := range s.Bars {
		x, y, w, h := f.barBox(b.Lane, b.Start, b.End)
		canvas.Group(fmt.Sprintf(`class="bar" data-task="%s"`, html.EscapeString(b.TaskID)))
		canvas.Title(fmt.Sprintf("%s\n%s - %s\nResource: %s\nStatus: %s\nPriority: %s\n%s",
			b.Label, b.Start, b.End, b.Resource, b.Status.Label(), b.Priority.Label(), b.Description))
		canvas.Rect(px(x), px(y), px(w), px(h), "fill:"+b.Color)
		canvas.Gend()
	}
	if s.Today != nil && s.Contains(s.Today.Date) {
		x := px(f.x(s.Today.Date))
		style := fmt.Sprintf("stroke:%s;stroke-width:%d", s.Today.Color, s.Today.Stroke)
		if s.Today.Dashed {
			style += ";stroke-dasharray:6,4"
		}
		canvas.Line(x, marginTop, x, px(f.plotBottom()), style)
		canvas.Text(x, marginTop-8, s.Today.Label, "text-anchor:middle;font-family:sans-serif;font-size:12px;fill:"+s.Today.Color)
	}
	drawSVGLegend(canvas, s)
	canvas.End()
	return buf.Bytes(), nil
}

func drawSVGAxes(canvas *svg.SVG, s timeline.Scene, f frame) {
	axis := "stroke:#333333;stroke-width:1"
	grid := "stroke:#e0e0e0;stroke-width:1"
	label := "font-family:sans-serif;font-size:11px;fill:#333333"
	bottom := px(f.plotBottom())

	for _, d := range f.ticks() {
		x := px(f.x(d))
		canvas.Line(x, marginTop, x, bottom, grid)
		canvas.Text(x, bottom+16, d.Time().Format(tickLayout), "text-anchor:middle;"+label)
	}
	for lane, name := range s.Lanes {
		canvas.Text(marginLeft-8, px(f.laneCenter(lane))+4, name, "text-anchor:end;"+label)
	}
	canvas.Line(marginLeft, bottom, px(f.width-marginRight), bottom, axis)
	canvas.Line(marginLeft, marginTop, marginLeft, bottom, axis)
	canvas.Text(px(marginLeft+f.plotWidth()/2), s.Height-16, s.XTitle, "text-anchor:middle;font-family:sans-serif;font-size:14px")
	canvas.Text(16, px(f.laneCenter(0)), s.YTitle, "font-family:sans-serif;font-size:14px")
}

func drawSVGLegend(canvas *svg.SVG, s timeline.Scene) {
	x := s.Width - marginRight - 140
	for i, entry := range s.Legend {
		y := 20 + i*16
		canvas.Rect(x, y, 10, 10, "fill:"+entry.Color)
		canvas.Text(x+16, y+9, entry.Group, "font-family:sans-serif;font-size:11px")
	}
}

func px(v float64) int {
	return int(v + 0.5)
}
