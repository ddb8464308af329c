package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/task"
	"github.com/metalagman/gantt/internal/view"
)

const reportWrap = 100

// projectReport renders a project summary as Markdown.
func projectReport(p *model.Project, stats task.Stats, rows []view.Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	fmt.Fprintf(&b, "- **Tasks:** %d\n", stats.TotalTasks)
	fmt.Fprintf(&b, "- **Completed:** %d (%.1f%%)\n", stats.CompletedTasks, stats.CompletionRate)
	fmt.Fprintf(&b, "- **Critical:** %d\n", stats.CriticalTasks)
	fmt.Fprintf(&b, "- **Late:** %d\n", stats.DelayedTasks)
	if stats.TotalTasks > 0 {
		fmt.Fprintf(&b, "- **Span:** %s to %s (%d days)\n", stats.Start, stats.End, stats.Duration)
	}
	if len(rows) == 0 {
		b.WriteString("\n_No tasks._\n")
		return b.String()
	}
	b.WriteString("\n| Task | Start | End | Days | Resource | Status | Priority | Depends on |\n")
	b.WriteString("|---|---|---|---:|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s | %s | %s |\n",
			cell(r.Name), r.StartDate, r.EndDate, r.Duration, cell(r.Resource),
			r.Status.Label(), r.Priority.Label(), cell(r.Dependencies))
	}
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// renderMarkdown styles md for the terminal, returning it unchanged when no
// renderer can be built.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(reportWrap))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
