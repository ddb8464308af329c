package view

import (
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/task"
	"github.com/rs/zerolog/log"
)

// nameIndex maps task names to ids using project order; the first task with a
// name wins and later holders of the same name are counted as ambiguous.
type nameIndex struct {
	ids   map[string]string
	count map[string]int
}

func newNameIndex(p *model.Project) nameIndex {
	idx := nameIndex{ids: map[string]string{}, count: map[string]int{}}
	for _, t := range p.Tasks {
		if _, ok := idx.ids[t.Name]; !ok {
			idx.ids[t.Name] = t.ID
		}
		idx.count[t.Name]++
	}
	return idx
}

func (n nameIndex) known(name string) bool {
	_, ok := n.ids[name]
	return ok
}

func (n nameIndex) resolve(taskID, display string) ([]string, []model.ResolutionWarning) {
	var ids []string
	var warnings []model.ResolutionWarning
	for _, name := range ParseNames(display, n.known) {
		id, ok := n.ids[name]
		if !ok {
			warnings = append(warnings, model.ResolutionWarning{TaskID: taskID, Ref: name, Reason: model.ReasonUnknownName})
			continue
		}
		if n.count[name] > 1 {
			warnings = append(warnings, model.ResolutionWarning{TaskID: taskID, Ref: name, Reason: model.ReasonAmbiguousName})
		}
		ids = append(ids, id)
	}
	return ids, warnings
}

// ApplyRowEdits writes edited rows back onto the graph. Dependency names are
// resolved against the task names present before any row is applied. Every
// row is validated first; on error the project is left unchanged.
func ApplyRowEdits(g *task.Graph, rows []Row) ([]model.ResolutionWarning, error) {
	p := g.Project()
	names := newNameIndex(p)

	updates := make([]model.Task, 0, len(rows))
	var warnings []model.ResolutionWarning
	for _, row := range rows {
		current, ok := g.Task(row.ID)
		if !ok {
			return nil, model.NotFoundf("task %q", row.ID)
		}
		deps, w := names.resolve(row.ID, row.Dependencies)
		warnings = append(warnings, w...)

		updated := current
		updated.Name = row.Name
		updated.StartDate = row.StartDate
		updated.EndDate = row.EndDate
		updated.Resource = row.Resource
		updated.Status = row.Status
		updated.Priority = row.Priority
		updated.Description = row.Description
		updated.Dependencies = deps
		if err := task.Validate(updated); err != nil {
			return nil, err
		}
		updates = append(updates, updated)
	}

	snapshot := p.Clone()
	for _, t := range updates {
		if _, err := g.UpdateTask(t); err != nil {
			*p = snapshot
			return nil, err
		}
	}

	for _, w := range warnings {
		log.Warn().
			Str("project_id", p.ID).
			Str("task_id", w.TaskID).
			Str("ref", w.Ref).
			Str("reason", w.Reason).
			Msg("dependency name resolution")
	}
	return warnings, nil
}

// ResolveRefs maps references to task ids. A reference that is already a task
// id of p is kept as is; any other is resolved as a task name.
func ResolveRefs(p *model.Project, taskID string, refs []string) ([]string, []model.ResolutionWarning) {
	names := newNameIndex(p)
	var ids []string
	var warnings []model.ResolutionWarning
	for _, ref := range refs {
		if p.TaskIndex(ref) >= 0 {
			ids = append(ids, ref)
			continue
		}
		resolved, w := names.resolve(taskID, ref)
		ids = append(ids, resolved...)
		warnings = append(warnings, w...)
	}
	return ids, warnings
}
