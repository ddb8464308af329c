// Package task maintains a project's task set and its id-based dependency edges.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/metalagman/gantt/internal/model"
	"github.com/rs/zerolog/log"
)

// Option configures a Graph.
type Option func(*Graph)

// WithClock overrides the clock used to stamp Project.UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Graph) {
		if now != nil {
			g.now = now
		}
	}
}

// WithStrictCycles makes mutations that would close a dependency cycle fail
// with model.ErrCycle. Cycles are accepted by default.
func WithStrictCycles(strict bool) Option {
	return func(g *Graph) {
		g.strict = strict
	}
}

// Graph wraps a caller-owned project and keeps its dependency edges consistent.
// It is not safe for concurrent use.
type Graph struct {
	project  *model.Project
	now      func() time.Time
	strict   bool
	warnings []model.ResolutionWarning
}

// New wraps p. Dangling, duplicate and self references already present in p are
// dropped and reported through Warnings, and task names are trimmed; UpdatedAt
// is left untouched by this repair.
func New(p *model.Project, opts ...Option) *Graph {
	g := &Graph{
		project: p,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	ids := g.idSet()
	for i := range p.Tasks {
		p.Tasks[i].Name = strings.TrimSpace(p.Tasks[i].Name)
		deps, warnings := sanitize(p.Tasks[i].ID, p.Tasks[i].Dependencies, ids)
		if len(warnings) > 0 {
			p.Tasks[i].Dependencies = deps
			g.warn(warnings)
		}
	}
	return g
}

// Project returns the wrapped project.
func (g *Graph) Project() *model.Project {
	return g.project
}

// Task returns a copy of the task with the given id.
func (g *Graph) Task(id string) (model.Task, bool) {
	idx := g.project.TaskIndex(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return g.project.Tasks[idx].Clone(), true
}

// Warnings returns the resolution warnings recorded so far.
func (g *Graph) Warnings() []model.ResolutionWarning {
	return append([]model.ResolutionWarning(nil), g.warnings...)
}

// AddTask validates t, assigns a fresh id when t.ID is empty and appends it.
// Surrounding spaces are trimmed from the name.
func (g *Graph) AddTask(t model.Task) (model.Task, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.ID == "" {
		t.ID = g.freshID()
	} else if g.project.TaskIndex(t.ID) >= 0 {
		return model.Task{}, model.Validationf("task id %q already exists", t.ID)
	}
	if err := Validate(t); err != nil {
		return model.Task{}, err
	}
	ids := g.idSet()
	ids[t.ID] = struct{}{}
	deps, warnings := sanitize(t.ID, t.Dependencies, ids)
	t.Dependencies = deps

	if g.strict {
		candidate := append(append([]model.Task(nil), g.project.Tasks...), t)
		if cycle := findCycle(candidate); cycle != nil {
			return model.Task{}, cycleError(cycle)
		}
	}

	g.project.Tasks = append(g.project.Tasks, t.Clone())
	g.warn(warnings)
	g.touch()
	return t, nil
}

// UpdateTask replaces the stored task that has t.ID. The id itself never changes.
func (g *Graph) UpdateTask(t model.Task) (model.Task, error) {
	idx := g.project.TaskIndex(t.ID)
	if idx < 0 {
		return model.Task{}, model.NotFoundf("task %q", t.ID)
	}
	t.Name = strings.TrimSpace(t.Name)
	if err := Validate(t); err != nil {
		return model.Task{}, err
	}
	deps, warnings := sanitize(t.ID, t.Dependencies, g.idSet())
	t.Dependencies = deps

	if g.strict {
		candidate := append([]model.Task(nil), g.project.Tasks...)
		candidate[idx] = t
		if cycle := findCycle(candidate); cycle != nil {
			return model.Task{}, cycleError(cycle)
		}
	}

	g.project.Tasks[idx] = t.Clone()
	g.warn(warnings)
	g.touch()
	return t, nil
}

// SetStatus changes the status of one task.
func (g *Graph) SetStatus(id string, status model.Status) error {
	if !status.IsValid() {
		return model.Validationf("unknown status %q", status)
	}
	idx := g.project.TaskIndex(id)
	if idx < 0 {
		return model.NotFoundf("task %q", id)
	}
	g.project.Tasks[idx].Status = status
	g.touch()
	return nil
}

// RemoveTask deletes a task and strips its id from every remaining dependency set.
func (g *Graph) RemoveTask(id string) error {
	idx := g.project.TaskIndex(id)
	if idx < 0 {
		return model.NotFoundf("task %q", id)
	}
	g.project.Tasks = append(g.project.Tasks[:idx], g.project.Tasks[idx+1:]...)
	for i := range g.project.Tasks {
		deps := g.project.Tasks[i].Dependencies[:0:0]
		for _, dep := range g.project.Tasks[i].Dependencies {
			if dep != id {
				deps = append(deps, dep)
			}
		}
		g.project.Tasks[i].Dependencies = deps
	}
	g.touch()
	return nil
}

// Rename sets the project name.
func (g *Graph) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Validationf("project name is required")
	}
	g.project.Name = name
	g.touch()
	return nil
}

// DependencyNames resolves a task's dependency ids to the current task names,
// in stored order. Unresolved ids are skipped.
func (g *Graph) DependencyNames(id string) []string {
	return DependencyNames(g.project, id)
}

// DependencyNames is the Graph-free form of Graph.DependencyNames.
func DependencyNames(p *model.Project, id string) []string {
	idx := p.TaskIndex(id)
	if idx < 0 {
		return nil
	}
	names := make([]string, 0, len(p.Tasks[idx].Dependencies))
	for _, dep := range p.Tasks[idx].Dependencies {
		if depIdx := p.TaskIndex(dep); depIdx >= 0 {
			names = append(names, p.Tasks[depIdx].Name)
		}
	}
	return names
}

// FindCycle returns one dependency cycle as a list of task ids, or nil.
func (g *Graph) FindCycle() []string {
	return findCycle(g.project.Tasks)
}

// Stats derives the project statistics from the current task set.
func (g *Graph) Stats() Stats {
	return ComputeStats(g.project.Tasks)
}

// Validate checks the field invariants of a single task.
func Validate(t model.Task) error {
	if strings.TrimSpace(t.Name) == "" {
		return model.Validationf("task name is required")
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return model.Validationf("task %q: start and end dates are required", t.Name)
	}
	if t.EndDate.Before(t.StartDate) {
		return model.Validationf("task %q: end date %s is before start date %s", t.Name, t.EndDate, t.StartDate)
	}
	if !t.Status.IsValid() {
		return model.Validationf("task %q: unknown status %q", t.Name, t.Status)
	}
	if !t.Priority.IsValid() {
		return model.Validationf("task %q: unknown priority %q", t.Name, t.Priority)
	}
	return nil
}

// NewTaskID returns a short random task id.
func NewTaskID() string {
	return "task-" + uuid.NewString()[:8]
}

func (g *Graph) freshID() string {
	for {
		id := NewTaskID()
		if g.project.TaskIndex(id) < 0 {
			return id
		}
	}
}

func (g *Graph) idSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(g.project.Tasks))
	for _, t := range g.project.Tasks {
		ids[t.ID] = struct{}{}
	}
	return ids
}

func (g *Graph) touch() {
	g.project.UpdatedAt = g.now()
}

func (g *Graph) warn(warnings []model.ResolutionWarning) {
	for _, w := range warnings {
		log.Warn().
			Str("project_id", g.project.ID).
			Str("task_id", w.TaskID).
			Str("ref", w.Ref).
			Str("reason", w.Reason).
			Msg("dependency dropped")
	}
	g.warnings = append(g.warnings, warnings...)
}

func sanitize(taskID string, deps []string, ids map[string]struct{}) ([]string, []model.ResolutionWarning) {
	out := make([]string, 0, len(deps))
	seen := make(map[string]struct{}, len(deps))
	var warnings []model.ResolutionWarning
	for _, dep := range deps {
		switch _, known := ids[dep]; {
		case dep == taskID:
			warnings = append(warnings, model.ResolutionWarning{TaskID: taskID, Ref: dep, Reason: model.ReasonSelfReference})
		case !known:
			warnings = append(warnings, model.ResolutionWarning{TaskID: taskID, Ref: dep, Reason: model.ReasonDangling})
		default:
			if _, dup := seen[dep]; dup {
				warnings = append(warnings, model.ResolutionWarning{TaskID: taskID, Ref: dep, Reason: model.ReasonDuplicate})
				continue
			}
			seen[dep] = struct{}{}
			out = append(out, dep)
		}
	}
	return out, warnings
}
