package export

import (
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/timeline"
)

const (
	marginLeft   = 180
	marginRight  = 40
	marginTop    = 80
	marginBottom = 60
	barFill      = 0.6
	tickLayout   = "02/01/2006"
	maxTicks     = 10
)

// frame maps scene coordinates (dates, lanes) onto a width x height canvas.
type frame struct {
	width, height float64
	start         model.Date
	days          int
	lanes         int
}

func newFrame(s timeline.Scene, width, height int) frame {
	days := s.Days()
	if days <= 0 {
		days = 1
	}
	lanes := len(s.Lanes)
	if lanes == 0 {
		lanes = 1
	}
	return frame{
		width:  float64(width),
		height: float64(height),
		start:  s.Start,
		days:   days,
		lanes:  lanes,
	}
}

func (f frame) plotWidth() float64 {
	return f.width - marginLeft - marginRight
}

func (f frame) plotBottom() float64 {
	return f.height - marginBottom
}

func (f frame) laneHeight() float64 {
	return (f.plotBottom() - marginTop) / float64(f.lanes)
}

func (f frame) x(d model.Date) float64 {
	return marginLeft + float64(f.start.DaysUntil(d))/float64(f.days)*f.plotWidth()
}

// barBox returns the rectangle of a bar spanning [start, end] inclusive.
func (f frame) barBox(lane int, start, end model.Date) (x, y, w, h float64) {
	x = f.x(start)
	w = f.x(end.AddDays(1)) - x
	lh := f.laneHeight()
	h = lh * barFill
	y = marginTop + float64(lane)*lh + (lh-h)/2
	return x, y, w, h
}

func (f frame) laneCenter(lane int) float64 {
	return marginTop + (float64(lane)+0.5)*f.laneHeight()
}

func (f frame) ticks() []model.Date {
	step := (f.days + maxTicks - 1) / maxTicks
	if step < 1 {
		step = 1
	}
	var out []model.Date
	for d := 0; d <= f.days; d += step {
		out = append(out, f.start.AddDays(d))
	}
	return out
}
