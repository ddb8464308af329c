package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/metalagman/gantt/internal/export"
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/sheet"
	"github.com/metalagman/gantt/internal/task"
	"github.com/metalagman/gantt/internal/timeline"
	"github.com/metalagman/gantt/internal/view"
	"github.com/rs/zerolog/log"
)

// Store is the keyed project document store.
type Store interface {
	List(ctx context.Context) ([]model.Summary, error)
	Get(ctx context.Context, id string) (model.Project, bool, error)
	Put(ctx context.Context, p model.Project) error
	Delete(ctx context.Context, id string) error
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStrictCycles rejects edits and imports that create dependency cycles.
func WithStrictCycles(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// Service runs user actions. Mutations are applied to a copy of the open
// project and only replace it in the session once the store accepted them.
type Service struct {
	store    Store
	engine   *timeline.Engine
	pipeline *export.Pipeline
	now      func() time.Time
	strict   bool
}

// NewService wires the collaborators.
func NewService(store Store, engine *timeline.Engine, pipeline *export.Pipeline, opts ...Option) *Service {
	s := &Service{
		store:    store,
		engine:   engine,
		pipeline: pipeline,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Projects lists stored projects, most recently updated first.
func (s *Service) Projects(ctx context.Context) ([]model.Summary, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list projects")
		return nil, err
	}
	return list, nil
}

// CreateProject stores an empty project and opens it.
func (s *Service) CreateProject(ctx context.Context, st *State, name string) (model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultProjectName
	}
	p := task.NewProject(name, s.now())
	if err := s.put(ctx, p); err != nil {
		return model.Project{}, err
	}
	st.open(p)
	return p, nil
}

// LoadProject opens a stored project.
func (s *Service) LoadProject(ctx context.Context, st *State, id string) (model.Project, error) {
	p, ok, err := s.store.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("project_id", id).Msg("load project")
		return model.Project{}, err
	}
	if !ok {
		return model.Project{}, model.NotFoundf("project %q", id)
	}
	task.New(&p)
	st.open(p)
	return p, nil
}

// DuplicateProject stores a copy of the open project and opens the copy.
func (s *Service) DuplicateProject(ctx context.Context, st *State) (model.Project, error) {
	cur, err := current(st)
	if err != nil {
		return model.Project{}, err
	}
	p := task.Duplicate(*cur, s.now())
	if err := s.put(ctx, p); err != nil {
		return model.Project{}, err
	}
	st.open(p)
	return p, nil
}

// RenameProject renames the open project.
func (s *Service) RenameProject(ctx context.Context, st *State, name string) error {
	return s.mutate(ctx, st, func(g *task.Graph) error {
		return g.Rename(name)
	})
}

// DeleteProject removes a stored project. The session is closed when it was
// the open one.
func (s *Service) DeleteProject(ctx context.Context, st *State, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("project_id", id).Msg("delete project")
		return err
	}
	if st.Project != nil && st.Project.ID == id {
		st.Project = nil
		st.Filter = view.Filter{}
		st.CloseTaskForm()
	}
	return nil
}

// SaveTask adds t with a fresh id when its id is empty and updates the task with
// that id otherwise. An id that is not in the project is reported as not found.
func (s *Service) SaveTask(ctx context.Context, st *State, t model.Task) (model.Task, []model.ResolutionWarning, error) {
	var saved model.Task
	var warnings []model.ResolutionWarning
	err := s.mutate(ctx, st, func(g *task.Graph) error {
		before := len(g.Warnings())
		var err error
		if t.ID != "" {
			saved, err = g.UpdateTask(t)
		} else {
			saved, err = g.AddTask(t)
		}
		warnings = g.Warnings()[before:]
		return err
	})
	if err != nil {
		return model.Task{}, nil, err
	}
	st.CloseTaskForm()
	return saved, warnings, nil
}

// DeleteTask removes a task and its incoming dependency edges.
func (s *Service) DeleteTask(ctx context.Context, st *State, id string) error {
	err := s.mutate(ctx, st, func(g *task.Graph) error {
		return g.RemoveTask(id)
	})
	if err == nil && st.EditTaskID == id {
		st.CloseTaskForm()
	}
	return err
}

// MarkDone sets a task's status to done.
func (s *Service) MarkDone(ctx context.Context, st *State, id string) error {
	return s.mutate(ctx, st, func(g *task.Graph) error {
		return g.SetStatus(id, model.StatusDone)
	})
}

// ApplyEdits writes edited table rows back and persists the project.
func (s *Service) ApplyEdits(ctx context.Context, st *State, rows []view.Row) ([]model.ResolutionWarning, error) {
	var warnings []model.ResolutionWarning
	err := s.mutate(ctx, st, func(g *task.Graph) error {
		var err error
		warnings, err = view.ApplyRowEdits(g, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return warnings, nil
}

// Rows returns the filtered, sorted table of the open project.
func (s *Service) Rows(st *State) []view.Row {
	return view.ToRows(st.Project, st.Filter, st.Sort)
}

// Stats returns the statistics of the whole open project.
func (s *Service) Stats(st *State) task.Stats {
	if st.Project == nil {
		return task.Stats{}
	}
	return task.ComputeStats(st.Project.Tasks)
}

// Chart lays out the filtered rows of the open project.
func (s *Service) Chart(st *State) timeline.Scene {
	scene := s.engine.Layout(s.Rows(st), st.ColorBy, st.Sort, st.HighlightCritical)
	if st.Project != nil && st.Project.Name != "" {
		scene.Title = st.Project.Name
	}
	return scene
}

// ExportChart renders the chart through the full fallback chain.
func (s *Service) ExportChart(ctx context.Context, st *State) export.Result {
	return s.pipeline.Export(ctx, s.Chart(st))
}

// ExportChartAs renders the chart starting at the stage producing f.
func (s *Service) ExportChartAs(ctx context.Context, st *State, f export.Format) (export.Result, error) {
	return s.pipeline.ExportFrom(ctx, s.Chart(st), f)
}

// ImportSheet validates a sheet, stores it as a new project and opens it.
func (s *Service) ImportSheet(ctx context.Context, st *State, sh sheet.Sheet, name string) (model.Project, []model.ResolutionWarning, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultProjectName
	}
	p, warnings, err := sheet.ToProject(sh, name, s.now())
	if err != nil {
		return model.Project{}, nil, err
	}
	if s.strict {
		if err := task.CheckAcyclic(p.Tasks); err != nil {
			return model.Project{}, nil, err
		}
	}
	if err := s.put(ctx, p); err != nil {
		return model.Project{}, nil, err
	}
	st.open(p)
	return p, warnings, nil
}

// ExportRows writes the filtered table as a spreadsheet, without task ids.
func (s *Service) ExportRows(st *State, w io.Writer, f sheet.Format) error {
	if _, err := current(st); err != nil {
		return err
	}
	sh := sheet.FromRows(s.Rows(st))
	switch f {
	case sheet.FormatCSV:
		return sheet.WriteCSV(w, sh)
	case sheet.FormatXLSX:
		return sheet.WriteXLSX(w, sh, sheet.DefaultSheetName)
	}
	return model.Validationf("unsupported spreadsheet format %q", f)
}

func (s *Service) mutate(ctx context.Context, st *State, fn func(g *task.Graph) error) error {
	cur, err := current(st)
	if err != nil {
		return err
	}
	p := cur.Clone()
	g := task.New(&p, task.WithClock(s.now), task.WithStrictCycles(s.strict))
	if err := fn(g); err != nil {
		return err
	}
	if err := s.put(ctx, p); err != nil {
		return err
	}
	st.Project = &p
	return nil
}

func (s *Service) put(ctx context.Context, p model.Project) error {
	if err := s.store.Put(ctx, p); err != nil {
		log.Error().Err(err).Str("project_id", p.ID).Msg("save project")
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return nil
}

func current(st *State) (*model.Project, error) {
	if st == nil || st.Project == nil {
		return nil, model.NotFoundf("no open project")
	}
	return st.Project, nil
}
