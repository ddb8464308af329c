// Package app implements the user actions of the planner over a caller-owned
// session state and the project store.
package app

import (
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/timeline"
	"github.com/metalagman/gantt/internal/view"
)

// DefaultProjectName names projects created without a name.
const DefaultProjectName = "New project"

// State is one session: the open project and the current view settings. It is
// owned by the caller and passed into every action.
type State struct {
	Project           *model.Project
	Filter            view.Filter
	Sort              view.SortKey
	ColorBy           timeline.ColorBy
	HighlightCritical bool
	ShowTaskForm      bool
	EditTaskID        string
}

// NewState returns a session with no open project.
func NewState(sort view.SortKey, colorBy timeline.ColorBy, highlightCritical bool) *State {
	return &State{
		Sort:              sort,
		ColorBy:           colorBy,
		HighlightCritical: highlightCritical,
	}
}

// OpenTaskForm shows the editor for a task, or for a new task when id is empty.
func (s *State) OpenTaskForm(id string) {
	s.ShowTaskForm = true
	s.EditTaskID = id
}

// CloseTaskForm hides the editor.
func (s *State) CloseTaskForm() {
	s.ShowTaskForm = false
	s.EditTaskID = ""
}

func (s *State) open(p model.Project) {
	s.Project = &p
	s.Filter = view.Filter{}
	s.CloseTaskForm()
}
