package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/gantt/internal/timeline"
)

const (
	mimeText             = "text/plain; charset=utf-8"
	DefaultTerminalWidth = 60
	terminalLabelWidth   = 24
)

// Terminal draws the scene with block characters for a console. It is not part
// of the default chain.
type Terminal struct {
	Width int
}

// Format implements Renderer.
func (Terminal) Format() Format { return FormatText }

// MIMEType implements Renderer.
func (Terminal) MIMEType() string { return mimeText }

// Render implements Renderer.
func (t Terminal) Render(_ context.Context, s timeline.Scene) ([]byte, error) {
	width := t.Width
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	titleStyle := lipgloss.NewStyle().Bold(true)
	labelStyle := lipgloss.NewStyle().Width(terminalLabelWidth).MaxWidth(terminalLabelWidth)
	dim := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title))
	b.WriteString("\n")
	if s.Empty {
		b.WriteString(dim.Render("No tasks to display"))
		b.WriteString("\n")
		return []byte(b.String()), nil
	}

	days := max(s.Days(), 1)
	col := func(offset int) int {
		return offset * width / days
	}
	b.WriteString(labelStyle.Render(""))
	b.WriteString(dim.Render(fmt.Sprintf("%s%*s", s.Start, width-len(s.Start.String()), s.End.AddDays(-1))))
	b.WriteString("\n")

	critical := make(map[int]bool, len(s.Outlines))
	for _, o := range s.Outlines {
		critical[o.Lane] = true
	}
	todayCol := -1
	if s.Today != nil && s.Contains(s.Today.Date) {
		todayCol = col(s.Start.DaysUntil(s.Today.Date))
	}
	for _, bar := range s.Bars {
		from := col(s.Start.DaysUntil(bar.Start))
		to := max(col(s.Start.DaysUntil(bar.End)+1), from+1)
		line := []rune(strings.Repeat(" ", width))
		if todayCol >= 0 && todayCol < width {
			line[todayCol] = '│'
		}
		label := bar.Label
		if critical[bar.Lane] {
			label = "! " + label
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(string(line[:from]))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(bar.Color)).Render(strings.Repeat("█", min(to, width)-from)))
		if to < width {
			b.WriteString(string(line[to:]))
		}
		b.WriteString("\n")
	}
	if len(s.Legend) > 0 {
		parts := make([]string, 0, len(s.Legend))
		for _, e := range s.Legend {
			parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("■")+" "+e.Group)
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(parts, "  "))
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}
