package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/metalagman/gantt/internal/model"
)

// NewProject returns an empty project with a fresh id.
func NewProject(name string, now time.Time) model.Project {
	return model.Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Tasks:     []model.Task{},
	}
}

// Duplicate copies p under a new project id, gives every task a new id and
// rewrites dependency edges to the new ids. Edges to unknown ids are dropped.
func Duplicate(p model.Project, now time.Time) model.Project {
	out := NewProject(p.Name+" (copy)", now)
	remap := make(map[string]string, len(p.Tasks))
	used := make(map[string]struct{}, len(p.Tasks))
	for _, t := range p.Tasks {
		id := NewTaskID()
		for {
			if _, taken := used[id]; !taken {
				break
			}
			id = NewTaskID()
		}
		used[id] = struct{}{}
		remap[t.ID] = id
	}
	for _, t := range p.Tasks {
		c := t.Clone()
		c.ID = remap[t.ID]
		deps := make([]string, 0, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if id, ok := remap[dep]; ok {
				deps = append(deps, id)
			}
		}
		c.Dependencies = deps
		out.Tasks = append(out.Tasks, c)
	}
	return out
}
