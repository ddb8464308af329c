package task

import "github.com/metalagman/gantt/internal/model"

// Stats are the derived, never stored, project figures.
type Stats struct {
	TotalTasks     int        `json:"total_tasks"`
	CompletedTasks int        `json:"completed_tasks"`
	CompletionRate float64    `json:"completion_rate"`
	CriticalTasks  int        `json:"critical_tasks"`
	DelayedTasks   int        `json:"delayed_tasks"`
	Duration       int        `json:"duration"`
	Start          model.Date `json:"start"`
	End            model.Date `json:"end"`
}

// ComputeStats is a single pass over tasks. An empty set yields all zeros.
func ComputeStats(tasks []model.Task) Stats {
	var s Stats
	if len(tasks) == 0 {
		return s
	}
	s.TotalTasks = len(tasks)
	s.Start = tasks[0].StartDate
	s.End = tasks[0].EndDate
	for _, t := range tasks {
		switch t.Status {
		case model.StatusDone:
			s.CompletedTasks++
		case model.StatusLate:
			s.DelayedTasks++
		}
		if t.Priority == model.PriorityCritical {
			s.CriticalTasks++
		}
		if t.StartDate.Before(s.Start) {
			s.Start = t.StartDate
		}
		if t.EndDate.After(s.End) {
			s.End = t.EndDate
		}
	}
	s.CompletionRate = float64(s.CompletedTasks) / float64(s.TotalTasks) * 100
	s.Duration = s.Start.DaysUntil(s.End) + 1
	return s
}
