package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/metalagman/gantt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "gantt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func sampleProject(id string, updated time.Time) model.Project {
	return model.Project{
		ID:        id,
		Name:      "Project " + id,
		CreatedAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt: updated,
		Tasks: []model.Task{
			{
				ID: "task-aaaa0001", Name: "Design",
				StartDate: model.NewDate(2024, 1, 1), EndDate: model.NewDate(2024, 1, 5),
				Resource: "Alice", Status: model.StatusDone, Priority: model.PriorityHigh,
				Dependencies: []string{},
			},
			{
				ID: "task-aaaa0002", Name: "Build",
				StartDate: model.NewDate(2024, 1, 6), EndDate: model.NewDate(2024, 1, 10),
				Resource: "Bob", Status: model.StatusInProgress, Priority: model.PriorityCritical,
				Dependencies: []string{"task-aaaa0001"}, Description: "core",
			},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p := sampleProject("p1", time.Date(2024, 1, 2, 9, 30, 0, 123, time.UTC))
	require.NoError(t, s.Put(ctx, p))

	got, ok, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p, got)

	p.Name = "Renamed"
	require.NoError(t, s.Put(ctx, p))
	got, _, err = s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestStoreGetMissing(t *testing.T) {
	_, ok, err := openTestStore(t).Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreListOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Put(ctx, sampleProject("old", base)))
	require.NoError(t, s.Put(ctx, sampleProject("new", base.Add(time.Hour))))
	require.NoError(t, s.Put(ctx, sampleProject("mid", base.Add(time.Millisecond))))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, 2, list[0].TaskCount)
	assert.True(t, list[0].UpdatedAt.Equal(base.Add(time.Hour)))
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Put(ctx, sampleProject("p1", time.Now().UTC())))

	require.NoError(t, s.Delete(ctx, "p1"))
	_, ok, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.Delete(ctx, "p1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStoreRejectsInvalidDocument(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p := sampleProject("p1", time.Now().UTC())
	p.Tasks[0].Status = "blocked"
	err := s.Put(ctx, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStore)

	_, err = s.DB().ExecContext(ctx, `INSERT INTO projects(id, name, created_at, updated_at, task_count, document)
		VALUES('bad', 'bad', '2024-01-01T00:00:00.000000000Z', '2024-01-01T00:00:00.000000000Z', 0, '{"id":"bad"}')`)
	require.NoError(t, err)
	_, _, err = s.Get(ctx, "bad")
	assert.ErrorIs(t, err, model.ErrStore)
}

func TestOpenInMemoryAppliesMigrations(t *testing.T) {
	conn, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	store := NewStore(conn)
	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	p := sampleProject("mem", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.Put(context.Background(), p))
	got, ok, err := store.Get(context.Background(), "mem")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p, got)
}
