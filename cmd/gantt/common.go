package main

import (
	"context"
	"os"

	"github.com/metalagman/gantt/internal/app"
	"github.com/metalagman/gantt/internal/config"
	"github.com/metalagman/gantt/internal/db"
	"github.com/metalagman/gantt/internal/export"
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/timeline"
	"github.com/metalagman/gantt/internal/view"
	"github.com/rs/zerolog/log"
)

// env is what every command works against.
type env struct {
	cfg   config.Config
	svc   *app.Service
	store *db.Store
}

func openEnv() (*env, func(), error) {
	repoRoot, err := os.Getwd()
	if err != nil {
		return nil, func() {}, err
	}
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return nil, func() {}, err
	}
	conn, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, func() {}, err
	}
	store := db.NewStore(conn)
	svc, err := newService(cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, func() {}, err
	}
	return &env{cfg: cfg, svc: svc, store: store}, func() { _ = store.Close() }, nil
}

func newService(cfg config.Config, store app.Store) (*app.Service, error) {
	opts, err := cfg.ExportOptions()
	if err != nil {
		return nil, err
	}
	var engineOpts []timeline.Option
	if cfg.Chart.Title != "" {
		engineOpts = append(engineOpts, timeline.WithTitle(cfg.Chart.Title))
	}
	return app.NewService(
		store,
		timeline.NewEngine(engineOpts...),
		export.New(opts),
		app.WithStrictCycles(cfg.Chart.StrictCycles),
	), nil
}

// newState starts a session with the configured chart defaults. The values
// were checked by config.Check.
func (e *env) newState() *app.State {
	sort, _ := view.ParseSortKey(e.cfg.Chart.SortBy)
	colorBy, _ := timeline.ParseColorBy(e.cfg.Chart.ColorBy)
	return app.NewState(sort, colorBy, e.cfg.Chart.HighlightCritical)
}

// openProject opens id, or the most recently updated project when id is empty.
func (e *env) openProject(ctx context.Context, id string) (*app.State, error) {
	st := e.newState()
	if id == "" {
		list, err := e.svc.Projects(ctx)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, model.NotFoundf("no projects; create one with 'gantt project create'")
		}
		id = list[0].ID
		log.Debug().Str("project_id", id).Msg("using most recent project")
	}
	if _, err := e.svc.LoadProject(ctx, st, id); err != nil {
		return nil, err
	}
	return st, nil
}

func logWarnings(warnings []model.ResolutionWarning) {
	for _, w := range warnings {
		log.Warn().Str("task_id", w.TaskID).Str("ref", w.Ref).Str("reason", w.Reason).Msg("dependency reference")
	}
}
