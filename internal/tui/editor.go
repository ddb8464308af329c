// Package tui is a terminal editor for the task table of one project.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/gantt/internal/app"
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/view"
)

// Backend is the part of the application service the editor drives.
type Backend interface {
	Rows(st *app.State) []view.Row
	ApplyEdits(ctx context.Context, st *app.State, rows []view.Row) ([]model.ResolutionWarning, error)
}

var columnWidths = map[view.Field]int{
	view.FieldName:         24,
	view.FieldStart:        10,
	view.FieldEnd:          10,
	view.FieldResource:     14,
	view.FieldStatus:       11,
	view.FieldPriority:     9,
	view.FieldDependencies: 24,
	view.FieldDescription:  28,
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dirtyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// savedMsg carries the result of ApplyEdits.
type savedMsg struct {
	warnings []model.ResolutionWarning
	err      error
}

// Editor edits the filtered rows of the open project as a table. Edits stay in
// a local buffer until saved; saving applies every row at once. The cell being
// edited is tracked through the session's task form.
type Editor struct {
	ctx     context.Context
	backend Backend
	st      *app.State
	keys    KeyMap
	fields  []view.Field

	title  string
	rows   []view.Row
	table  table.Model
	input  textinput.Model
	help   help.Model
	col    int
	dirty  bool
	saving bool
	quit   bool // a first quit with unsaved edits only warns

	status string
	failed bool
}

// NewEditor returns an editor over the rows of st's open project.
func NewEditor(ctx context.Context, backend Backend, st *app.State) *Editor {
	e := &Editor{
		ctx:     ctx,
		backend: backend,
		st:      st,
		keys:    DefaultKeyMap(),
		fields:  view.Fields(),
		input:   textinput.New(),
		help:    help.New(),
	}
	e.input.Prompt = "> "
	e.table = table.New(
		table.WithFocused(true),
		table.WithHeight(15),
	)
	e.reload()
	return e
}

// Init implements tea.Model.
func (e *Editor) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.table.SetWidth(msg.Width)
		e.table.SetHeight(max(msg.Height-6, 3))
		e.help.Width = msg.Width
		return e, nil
	case savedMsg:
		e.saving = false
		if msg.err != nil {
			e.setError(msg.err)
			return e, nil
		}
		e.reload()
		e.setStatus(savedStatus(msg.warnings))
		return e, nil
	case tea.KeyMsg:
		if e.Editing() {
			return e.updateInput(msg)
		}
		return e.updateTable(msg)
	}
	return e, nil
}

func (e *Editor) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, e.keys.Quit) {
		if e.dirty && !e.quit {
			e.quit = true
			e.setStatus("unsaved edits: w saves, q again discards them")
			return e, nil
		}
		return e, tea.Quit
	}
	e.quit = false
	if e.saving {
		return e, nil
	}

	switch {
	case key.Matches(msg, e.keys.Left):
		e.col = (e.col + len(e.fields) - 1) % len(e.fields)
		e.refreshColumns()
		return e, nil
	case key.Matches(msg, e.keys.Right):
		e.col = (e.col + 1) % len(e.fields)
		e.refreshColumns()
		return e, nil
	case key.Matches(msg, e.keys.Edit):
		row, ok := e.selected()
		if !ok {
			return e, nil
		}
		e.st.OpenTaskForm(row.ID)
		e.input.SetValue(row.Get(e.field()))
		e.input.CursorEnd()
		return e, e.input.Focus()
	case key.Matches(msg, e.keys.Done):
		if row, ok := e.selected(); ok {
			row.Status = model.StatusDone
			e.dirty = true
			e.refreshRows()
		}
		return e, nil
	case key.Matches(msg, e.keys.Save):
		return e, e.save()
	case key.Matches(msg, e.keys.Reload):
		e.reload()
		e.setStatus("edits discarded")
		return e, nil
	}

	var cmd tea.Cmd
	e.table, cmd = e.table.Update(msg)
	return e, cmd
}

func (e *Editor) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, e.keys.Cancel):
		e.closeInput()
		return e, nil
	case key.Matches(msg, e.keys.Commit):
		row, ok := e.editedRow()
		if !ok {
			e.closeInput()
			return e, nil
		}
		if err := row.Set(e.field(), e.input.Value()); err != nil {
			e.setError(err)
			return e, nil
		}
		e.dirty = true
		e.closeInput()
		e.refreshRows()
		e.setStatus("")
		return e, nil
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd
}

// save applies the buffered rows. Rows are copied so the command does not share
// the buffer with later edits.
func (e *Editor) save() tea.Cmd {
	if !e.dirty {
		e.setStatus("nothing to save")
		return nil
	}
	e.saving = true
	rows := append([]view.Row(nil), e.rows...)
	ctx, backend, st := e.ctx, e.backend, e.st
	return func() tea.Msg {
		warnings, err := backend.ApplyEdits(ctx, st, rows)
		return savedMsg{warnings: warnings, err: err}
	}
}

// View implements tea.Model.
func (e *Editor) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(e.title))
	if e.dirty {
		b.WriteString(dirtyStyle.Render("  (modified)"))
	}
	b.WriteString("\n\n")
	b.WriteString(e.table.View())
	b.WriteString("\n")

	if e.Editing() {
		if row, ok := e.editedRow(); ok {
			fmt.Fprintf(&b, "%s of %q\n", e.field().Label(), row.Name)
		}
		b.WriteString(e.input.View())
		b.WriteString("\n")
	}
	if e.status != "" {
		style := statusStyle
		if e.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(e.status))
		b.WriteString("\n")
	}
	if e.Editing() {
		b.WriteString(e.help.ShortHelpView(e.keys.editHelp()))
	} else {
		b.WriteString(e.help.View(e.keys))
	}
	return b.String()
}

// Editing reports whether a cell editor is open.
func (e *Editor) Editing() bool {
	return e.st.ShowTaskForm
}

// Rows returns the buffered rows.
func (e *Editor) Rows() []view.Row {
	return e.rows
}

// Dirty reports whether the buffer holds unsaved edits.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// Status returns the last status line.
func (e *Editor) Status() string {
	return e.status
}

func (e *Editor) field() view.Field {
	return e.fields[e.col]
}

func (e *Editor) selected() (*view.Row, bool) {
	i := e.table.Cursor()
	if i < 0 || i >= len(e.rows) {
		return nil, false
	}
	return &e.rows[i], true
}

func (e *Editor) editedRow() (*view.Row, bool) {
	for i := range e.rows {
		if e.rows[i].ID == e.st.EditTaskID {
			return &e.rows[i], true
		}
	}
	return nil, false
}

func (e *Editor) closeInput() {
	e.st.CloseTaskForm()
	e.input.Blur()
	e.input.Reset()
}

// reload reads the rows back from the session. It runs on the update loop, never
// while a save is in flight.
func (e *Editor) reload() {
	e.title = "Tasks"
	if e.st.Project != nil {
		e.title = e.st.Project.Name
	}
	e.rows = e.backend.Rows(e.st)
	e.dirty = false
	e.refreshColumns()
	e.refreshRows()
	if e.table.Cursor() >= len(e.rows) {
		e.table.SetCursor(max(len(e.rows)-1, 0))
	}
}

func (e *Editor) refreshColumns() {
	cols := make([]table.Column, 0, len(e.fields))
	for i, f := range e.fields {
		title := f.Label()
		if i == e.col {
			title = "[" + title + "]"
		}
		cols = append(cols, table.Column{Title: title, Width: columnWidths[f]})
	}
	e.table.SetColumns(cols)
}

func (e *Editor) refreshRows() {
	out := make([]table.Row, 0, len(e.rows))
	for _, r := range e.rows {
		cells := make(table.Row, 0, len(e.fields))
		for _, f := range e.fields {
			cells = append(cells, r.Get(f))
		}
		out = append(out, cells)
	}
	e.table.SetRows(out)
}

func (e *Editor) setStatus(s string) {
	e.status = s
	e.failed = false
}

func (e *Editor) setError(err error) {
	e.status = err.Error()
	e.failed = true
}

func savedStatus(warnings []model.ResolutionWarning) string {
	if len(warnings) == 0 {
		return "saved"
	}
	refs := make([]string, 0, len(warnings))
	for _, w := range warnings {
		refs = append(refs, fmt.Sprintf("%s (%s)", w.Ref, w.Reason))
	}
	return fmt.Sprintf("saved with %d dependency warnings: %s", len(warnings), strings.Join(refs, ", "))
}
