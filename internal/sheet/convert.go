package sheet

import (
	"strconv"
	"time"

	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/task"
	"github.com/metalagman/gantt/internal/view"
	"github.com/rs/zerolog/log"
)

// ToProject builds a new project from a sheet. Every task gets a fresh id and
// dependency names are resolved against the imported names; unknown names are
// dropped with a warning. Nothing is built when the sheet fails Validate.
func ToProject(s Sheet, name string, now time.Time) (model.Project, []model.ResolutionWarning, error) {
	if ok, reason := Validate(s); !ok {
		return model.Project{}, nil, model.Validationf("%s", reason)
	}
	s = Normalize(s)
	p := task.NewProject(name, now)

	type pending struct {
		task model.Task
		deps string
	}
	var rows []pending
	used := map[string]struct{}{}
	byName := map[string]string{}
	for i, rec := range s.Records {
		if blank(rec) {
			continue
		}
		line := i + 2
		t, err := s.toTask(rec, line)
		if err != nil {
			return model.Project{}, nil, err
		}
		t.ID = task.NewTaskID()
		for {
			if _, taken := used[t.ID]; !taken {
				break
			}
			t.ID = task.NewTaskID()
		}
		used[t.ID] = struct{}{}
		if _, dup := byName[t.Name]; !dup {
			byName[t.Name] = t.ID
		}
		rows = append(rows, pending{task: t, deps: s.Value(rec, ColDependencies)})
	}
	known := func(name string) bool {
		_, ok := byName[name]
		return ok
	}

	var warnings []model.ResolutionWarning
	for _, r := range rows {
		r.task.Dependencies = []string{}
		for _, dep := range view.ParseNames(r.deps, known) {
			id, ok := byName[dep]
			if !ok {
				warnings = append(warnings, model.ResolutionWarning{TaskID: r.task.ID, Ref: dep, Reason: model.ReasonUnknownName})
				continue
			}
			r.task.Dependencies = append(r.task.Dependencies, id)
		}
		p.Tasks = append(p.Tasks, r.task)
	}
	for _, w := range warnings {
		log.Warn().Str("task_id", w.TaskID).Str("ref", w.Ref).Str("reason", w.Reason).Msg("import: dependency dropped")
	}
	// Self and duplicate references are cleaned by the graph.
	g := task.New(&p)
	return p, append(warnings, g.Warnings()...), nil
}

func (s Sheet) toTask(rec []string, line int) (model.Task, error) {
	start, err := s.ParseCell(s.Value(rec, ColStart))
	if err != nil {
		return model.Task{}, model.Validationf("row %d: %v", line, err)
	}
	end, err := s.ParseCell(s.Value(rec, ColEnd))
	if err != nil {
		return model.Task{}, model.Validationf("row %d: %v", line, err)
	}
	status, err := model.ParseStatus(s.Value(rec, ColStatus))
	if err != nil {
		return model.Task{}, model.Validationf("row %d: %v", line, err)
	}
	priority, err := model.ParsePriority(s.Value(rec, ColPriority))
	if err != nil {
		return model.Task{}, model.Validationf("row %d: %v", line, err)
	}
	t := model.Task{
		Name:        s.Value(rec, ColTask),
		StartDate:   start,
		EndDate:     end,
		Resource:    s.Value(rec, ColResource),
		Status:      status,
		Priority:    priority,
		Description: s.Value(rec, ColDescription),
	}
	if err := task.Validate(t); err != nil {
		return model.Task{}, model.Validationf("row %d: %v", line, err)
	}
	return t, nil
}

// FromRows renders display rows as an export sheet. The internal id is not
// exported.
func FromRows(rows []view.Row) Sheet {
	out := Sheet{Header: append([]string(nil), Columns...)}
	for _, r := range rows {
		out.Records = append(out.Records, []string{
			r.Name,
			r.StartDate.String(),
			r.EndDate.String(),
			r.Resource,
			r.Status.Label(),
			r.Priority.Label(),
			r.Dependencies,
			r.Description,
			strconv.Itoa(r.Duration),
		})
	}
	return out
}
