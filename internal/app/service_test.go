package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/metalagman/gantt/internal/db"
	"github.com/metalagman/gantt/internal/export"
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/sheet"
	"github.com/metalagman/gantt/internal/timeline"
	"github.com/metalagman/gantt/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance() { c.t = c.t.Add(time.Minute) }

func newTestService(t *testing.T, opts ...Option) (*Service, *db.Store, *fixedClock) {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "gantt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	store := db.NewStore(conn)

	clock := &fixedClock{t: time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)}
	engine := timeline.NewEngine(timeline.WithClock(clock.now))
	pipeline := export.New(export.Options{})
	svc := NewService(store, engine, pipeline, append([]Option{WithClock(clock.now)}, opts...)...)
	return svc, store, clock
}

func newState() *State {
	return NewState(view.SortStartDate, timeline.ColorByStatus, true)
}

func scenarioTask(name string, start, end int, deps ...string) model.Task {
	return model.Task{
		Name:         name,
		StartDate:    model.NewDate(2024, 1, start),
		EndDate:      model.NewDate(2024, 1, end),
		Resource:     "Alice",
		Status:       model.StatusNotStarted,
		Priority:     model.PriorityMedium,
		Dependencies: deps,
	}
}

func TestServiceScenario(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestService(t)
	st := newState()

	p, err := svc.CreateProject(ctx, st, "  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectName, p.Name)

	clock.advance()
	t1, _, err := svc.SaveTask(ctx, st, scenarioTask("T1", 1, 5))
	require.NoError(t, err)
	t2, warnings, err := svc.SaveTask(ctx, st, scenarioTask("T2", 6, 10, t1.ID, "ghost"))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, model.ReasonDangling, warnings[0].Reason)

	stats := svc.Stats(st)
	assert.Equal(t, 10, stats.Duration)
	assert.Equal(t, 2, stats.TotalTasks)

	rows := svc.Rows(st)
	require.Len(t, rows, 2)
	assert.Equal(t, "T1", rows[1].Dependencies)

	stored, ok, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, *st.Project, stored)
	assert.Equal(t, clock.t, stored.UpdatedAt)

	require.NoError(t, svc.MarkDone(ctx, st, t1.ID))
	assert.InDelta(t, 50.0, svc.Stats(st).CompletionRate, 1e-9)

	require.NoError(t, svc.DeleteTask(ctx, st, t1.ID))
	remaining := st.Project
	require.Len(t, remaining.Tasks, 1)
	assert.Equal(t, t2.ID, remaining.Tasks[0].ID)
	assert.Empty(t, remaining.Tasks[0].Dependencies)
}

func TestServiceValidationLeavesProjectUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	st := newState()
	_, err := svc.CreateProject(ctx, st, "P")
	require.NoError(t, err)
	before := st.Project.Clone()

	bad := scenarioTask("Bad", 10, 5)
	_, _, err = svc.SaveTask(ctx, st, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, before, *st.Project)
}

func TestServiceApplyEdits(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	st := newState()
	_, err := svc.CreateProject(ctx, st, "Edits")
	require.NoError(t, err)
	a, _, err := svc.SaveTask(ctx, st, scenarioTask("A", 1, 2))
	require.NoError(t, err)
	_, _, err = svc.SaveTask(ctx, st, scenarioTask("B", 3, 4))
	require.NoError(t, err)

	rows := svc.Rows(st)
	rows[1].Dependencies = "A, Missing"
	rows[1].Status = model.StatusLate
	rows[1].Description = "edited"
	warnings, err := svc.ApplyEdits(ctx, st, rows)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Missing", warnings[0].Ref)

	again := svc.Rows(st)
	assert.Equal(t, "A", again[1].Dependencies)
	assert.Equal(t, model.StatusLate, again[1].Status)
	assert.Equal(t, "edited", again[1].Description)

	stored, _, err := store.Get(ctx, st.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, stored.Tasks[1].Dependencies)
}

func TestServiceSaveTaskUnknownID(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	st := newState()
	p, err := svc.CreateProject(ctx, st, "Ids")
	require.NoError(t, err)

	foreign := scenarioTask("Foreign", 1, 2)
	foreign.ID = "task-foreign"
	_, _, err = svc.SaveTask(ctx, st, foreign)
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.Empty(t, st.Project.Tasks)

	stored, ok, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, stored.Tasks)

	added, _, err := svc.SaveTask(ctx, st, scenarioTask("Fresh", 1, 2))
	require.NoError(t, err)
	assert.NotEqual(t, "task-foreign", added.ID)
	assert.NotEmpty(t, added.ID)
}

func TestServiceStrictCycles(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, WithStrictCycles(true))
	st := newState()
	_, err := svc.CreateProject(ctx, st, "Strict")
	require.NoError(t, err)
	a, _, err := svc.SaveTask(ctx, st, scenarioTask("A", 1, 2))
	require.NoError(t, err)
	b, _, err := svc.SaveTask(ctx, st, scenarioTask("B", 3, 4, a.ID))
	require.NoError(t, err)

	a.Dependencies = []string{b.ID}
	_, _, err = svc.SaveTask(ctx, st, a)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCycle)
	idx := st.Project.TaskIndex(a.ID)
	assert.Empty(t, st.Project.Tasks[idx].Dependencies)
}

func TestServiceProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t)
	st := newState()

	orig, err := svc.CreateProject(ctx, st, "Origin")
	require.NoError(t, err)
	a, _, err := svc.SaveTask(ctx, st, scenarioTask("A", 1, 2))
	require.NoError(t, err)
	_, _, err = svc.SaveTask(ctx, st, scenarioTask("B", 3, 4, a.ID))
	require.NoError(t, err)

	clock.advance()
	dup, err := svc.DuplicateProject(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, "Origin (copy)", dup.Name)
	assert.NotEqual(t, orig.ID, dup.ID)
	require.Len(t, dup.Tasks, 2)
	assert.NotEqual(t, a.ID, dup.Tasks[0].ID)
	assert.Equal(t, []string{dup.Tasks[0].ID}, dup.Tasks[1].Dependencies)
	assert.Equal(t, dup.ID, st.Project.ID)

	require.NoError(t, svc.RenameProject(ctx, st, "Copy"))
	list, err := svc.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Copy", list[0].Name)

	_, err = svc.LoadProject(ctx, st, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Origin", st.Project.Name)

	require.NoError(t, svc.DeleteProject(ctx, st, orig.ID))
	assert.Nil(t, st.Project)

	_, err = svc.LoadProject(ctx, st, orig.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	err = svc.RenameProject(ctx, st, "x")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestServiceImportAndExportRows(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	st := newState()

	p, warnings, err := svc.ImportSheet(ctx, st, sheet.Example(model.NewDate(2024, 2, 1)), "Sample")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, p.Tasks, 7)

	st.Filter = view.Filter{Priorities: []model.Priority{model.PriorityCritical}}
	var buf bytes.Buffer
	require.NoError(t, svc.ExportRows(st, &buf, sheet.FormatCSV))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.NotContains(t, buf.String(), "task-")

	bad := sheet.Sheet{Header: sheet.Required, Records: [][]string{{"A", "2024-01-05", "2024-01-01", "x", "done", "low"}}}
	_, _, err = svc.ImportSheet(ctx, st, bad, "Bad")
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, p.ID, st.Project.ID)
}

func TestServiceExportChart(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	st := newState()
	_, err := svc.CreateProject(ctx, st, "Chart")
	require.NoError(t, err)
	_, _, err = svc.SaveTask(ctx, st, scenarioTask("A", 1, 10))
	require.NoError(t, err)

	scene := svc.Chart(st)
	assert.Equal(t, "Chart", scene.Title)
	require.NotNil(t, scene.Today)
	assert.Equal(t, model.NewDate(2024, 1, 8), scene.Today.Date)

	res := svc.ExportChart(ctx, st)
	assert.Equal(t, export.FormatSVG, res.Format)

	res, err = svc.ExportChartAs(ctx, st, export.FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, export.FormatHTML, res.Format)
}

type failingStore struct{ Store }

var errDiskFull = errors.New("disk full")

func (failingStore) Put(context.Context, model.Project) error { return model.StoreError("save project", errDiskFull) }

func TestServiceStoreFailureIsReported(t *testing.T) {
	ctx := context.Background()
	_, store, _ := newTestService(t)
	svc := NewService(failingStore{Store: store}, timeline.NewEngine(), export.New(export.Options{}))
	st := newState()

	_, err := svc.CreateProject(ctx, st, "P")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStore)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Nil(t, st.Project)
}
