// Package model defines the project and task records shared by every layer of gantt.
package model

import "time"

// Project is a named, ordered collection of tasks.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tasks     []Task    `json:"tasks"`
}

// Task is a dated unit of work inside a project.
type Task struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	StartDate    Date     `json:"start_date"`
	EndDate      Date     `json:"end_date"`
	Resource     string   `json:"resource"`
	Status       Status   `json:"status"`
	Priority     Priority `json:"priority"`
	Dependencies []string `json:"dependencies"`
	Description  string   `json:"description"`
}

// Duration returns the inclusive number of days covered by the task.
func (t Task) Duration() int {
	return t.StartDate.DaysUntil(t.EndDate) + 1
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.Dependencies = append([]string{}, t.Dependencies...)
	return out
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	out.Tasks = make([]Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		out.Tasks = append(out.Tasks, t.Clone())
	}
	return out
}

// TaskIndex returns the position of the task with the given id, or -1.
func (p *Project) TaskIndex(id string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Summary is the listing view of a stored project.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	TaskCount int       `json:"task_count"`
}
