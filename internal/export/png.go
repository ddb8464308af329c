package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/metalagman/gantt/internal/timeline"
)

const (
	mimePNG             = "image/png"
	DefaultRasterWidth  = 1200
	DefaultRasterHeight = 800
	DefaultRasterScale  = 2
)

// PNG rasterises the scene at fixed dimensions multiplied by Scale.
type PNG struct {
	Width  int
	Height int
	Scale  float64
}

// Format implements Renderer.
func (PNG) Format() Format { return FormatPNG }

// MIMEType implements Renderer.
func (PNG) MIMEType() string { return mimePNG }

func (p PNG) dims() (int, int, float64) {
	w, h, scale := p.Width, p.Height, p.Scale
	if w <= 0 {
		w = DefaultRasterWidth
	}
	if h <= 0 {
		h = DefaultRasterHeight
	}
	if scale <= 0 {
		scale = DefaultRasterScale
	}
	return w, h, scale
}

// Render implements Renderer.
func (p PNG) Render(_ context.Context, s timeline.Scene) ([]byte, error) {
	w, h, scale := p.dims()
	dc := gg.NewContext(int(float64(w)*scale), int(float64(h)*scale))
	dc.Scale(scale, scale)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	dc.SetHexColor("#000000")
	dc.DrawStringAnchored(s.Title, float64(w)/2, marginTop/2, 0.5, 0.5)
	if s.Empty {
		dc.SetHexColor("#666666")
		dc.DrawStringAnchored("No tasks to display", float64(w)/2, float64(h)/2, 0.5, 0.5)
		return encodePNG(dc)
	}

	f := newFrame(s, w, h)
	drawPNGAxes(dc, s, f)

	for _, o := range s.Outlines {
		x, y, bw, bh := f.barBox(o.Lane, o.Start, o.End)
		pad := float64(o.Stroke) * 2
		dc.SetHexColor(o.Color)
		dc.SetLineWidth(float64(o.Stroke))
		dc.DrawRectangle(x-pad, y-pad, bw+2*pad, bh+2*pad)
		dc.Stroke()
	}
	for _, b := range s.Bars {
		x, y, bw, bh := f.barBox(b.Lane, b.Start, b.End)
		dc.SetHexColor(b.Color)
		dc.DrawRectangle(x, y, bw, bh)
		dc.Fill()
	}
	if s.Today != nil && s.Contains(s.Today.Date) {
		x := f.x(s.Today.Date)
		dc.SetHexColor(s.Today.Color)
		dc.SetLineWidth(float64(s.Today.Stroke))
		if s.Today.Dashed {
			dc.SetDash(6, 4)
		}
		dc.DrawLine(x, marginTop, x, f.plotBottom())
		dc.Stroke()
		dc.SetDash()
		dc.DrawStringAnchored(s.Today.Label, x, marginTop-10, 0.5, 0.5)
	}
	for i, entry := range s.Legend {
		lx := float64(w - marginRight - 140)
		ly := float64(20 + i*16)
		dc.SetHexColor(entry.Color)
		dc.DrawRectangle(lx, ly, 10, 10)
		dc.Fill()
		dc.SetHexColor("#000000")
		dc.DrawString(entry.Group, lx+16, ly+9)
	}
	return encodePNG(dc)
}

func drawPNGAxes(dc *gg.Context, s timeline.Scene, f frame) {
	bottom := f.plotBottom()
	dc.SetLineWidth(1)
	for _, d := range f.ticks() {
		x := f.x(d)
		dc.SetHexColor("#e0e0e0")
		dc.DrawLine(x, marginTop, x, bottom)
		dc.Stroke()
		dc.SetHexColor("#333333")
		dc.DrawStringAnchored(d.Time().Format(tickLayout), x, bottom+14, 0.5, 0.5)
	}
	for lane, name := range s.Lanes {
		dc.DrawStringAnchored(name, marginLeft-8, f.laneCenter(lane), 1, 0.5)
	}
	dc.SetHexColor("#333333")
	dc.DrawLine(marginLeft, bottom, f.width-marginRight, bottom)
	dc.DrawLine(marginLeft, marginTop, marginLeft, bottom)
	dc.Stroke()
	dc.DrawStringAnchored(s.XTitle, marginLeft+f.plotWidth()/2, f.height-16, 0.5, 0.5)
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
