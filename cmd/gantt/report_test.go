package main

import (
	"strings"
	"testing"

	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/task"
	"github.com/metalagman/gantt/internal/view"
)

func TestProjectReport(t *testing.T) {
	t.Parallel()

	p := &model.Project{Name: "Launch", Tasks: []model.Task{
		{ID: "a", Name: "Design | UX", StartDate: model.NewDate(2024, 1, 1), EndDate: model.NewDate(2024, 1, 5),
			Resource: "Alice", Status: model.StatusDone, Priority: model.PriorityHigh},
		{ID: "b", Name: "Build", StartDate: model.NewDate(2024, 1, 6), EndDate: model.NewDate(2024, 1, 10),
			Resource: "Bob", Status: model.StatusLate, Priority: model.PriorityCritical, Dependencies: []string{"a"}},
	}}
	rows := view.ToRows(p, view.Filter{}, view.SortStartDate)

	md := projectReport(p, task.ComputeStats(p.Tasks), rows)

	for _, want := range []string{
		"# Launch",
		"- **Tasks:** 2",
		"- **Completed:** 1 (50.0%)",
		"- **Late:** 1",
		"2024-01-01 to 2024-01-10 (10 days)",
		`Design \| UX`,
		"| Build | 2024-01-06 | 2024-01-10 | 5 | Bob |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
}

func TestProjectReportEmpty(t *testing.T) {
	t.Parallel()

	md := projectReport(&model.Project{Name: "Empty"}, task.Stats{}, nil)
	if !strings.Contains(md, "_No tasks._") {
		t.Fatalf("report = %q, want empty marker", md)
	}
	if strings.Contains(md, "Span") {
		t.Fatalf("empty report must not show a span: %q", md)
	}
}
