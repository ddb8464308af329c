package db

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/metalagman/gantt/internal/model"
	"github.com/xeipuuv/gojsonschema"
)

// timeLayout is fixed width so updated_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

//go:embed project.schema.json
var projectSchemaJSON string

var projectSchema = gojsonschema.NewStringLoader(projectSchemaJSON)

// Store is a keyed document store of projects.
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an opened database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns project summaries, most recently updated first.
func (s *Store) List(ctx context.Context) ([]model.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at, task_count
		FROM projects ORDER BY updated_at DESC, name ASC, id ASC`)
	if err != nil {
		return nil, model.StoreError("list projects", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Summary
	for rows.Next() {
		var sum model.Summary
		var createdAt, updatedAt string
		if err := rows.Scan(&sum.ID, &sum.Name, &createdAt, &updatedAt, &sum.TaskCount); err != nil {
			return nil, model.StoreError("scan project", err)
		}
		if sum.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, model.StoreError("scan project", err)
		}
		if sum.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, model.StoreError("scan project", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, model.StoreError("list projects", err)
	}
	return out, nil
}

// Get loads one project. ok is false when no project has the id.
func (s *Store) Get(ctx context.Context, id string) (model.Project, bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM projects WHERE id=?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, false, nil
	}
	if err != nil {
		return model.Project{}, false, model.StoreError("load project", err)
	}
	if err := validateDocument([]byte(doc)); err != nil {
		return model.Project{}, false, model.StoreError("load project", err)
	}
	var p model.Project
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return model.Project{}, false, model.StoreError("load project", fmt.Errorf("decode document: %w", err))
	}
	return p, true, nil
}

// Put inserts or replaces the project document.
func (s *Store) Put(ctx context.Context, p model.Project) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return model.StoreError("save project", fmt.Errorf("encode document: %w", err))
	}
	if err := validateDocument(doc); err != nil {
		return model.StoreError("save project", err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO projects(id, name, created_at, updated_at, task_count, document)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, created_at=excluded.created_at,
			updated_at=excluded.updated_at, task_count=excluded.task_count, document=excluded.document`,
		p.ID, p.Name, formatTime(p.CreatedAt), formatTime(p.UpdatedAt), len(p.Tasks), string(doc)); err != nil {
		return model.StoreError("save project", err)
	}
	return nil
}

// Delete removes a project. Deleting an unknown id returns model.ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id=?`, id)
	if err != nil {
		return model.StoreError("delete project", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.StoreError("delete project", err)
	}
	if n == 0 {
		return model.NotFoundf("project %q", id)
	}
	return nil
}

func validateDocument(doc []byte) error {
	result, err := gojsonschema.Validate(projectSchema, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate document: %w", err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		errs = append(errs, schemaErr.String())
	}
	sort.Strings(errs)
	return fmt.Errorf("document schema validation failed: %s", strings.Join(errs, "; "))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", value, err)
	}
	return t, nil
}
