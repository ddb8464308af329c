// Package view projects a project's tasks into filtered, sorted display rows and
// applies edited rows back onto the task graph.
package view

import (
	"sort"
	"strings"

	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/task"
)

// DependencySeparator joins dependency names in a row.
const DependencySeparator = ", "

// Row is a flattened task as shown in the editable table.
type Row struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	StartDate    model.Date     `json:"start_date"`
	EndDate      model.Date     `json:"end_date"`
	Resource     string         `json:"resource"`
	Status       model.Status   `json:"status"`
	Priority     model.Priority `json:"priority"`
	Dependencies string         `json:"dependencies"`
	Description  string         `json:"description"`
	Duration     int            `json:"duration"`
}

// Filter restricts rows. Empty sets and zero dates do not constrain.
type Filter struct {
	Statuses   []model.Status   `json:"statuses,omitempty"`
	Resources  []string         `json:"resources,omitempty"`
	Priorities []model.Priority `json:"priorities,omitempty"`
	From       model.Date       `json:"from"`
	To         model.Date       `json:"to"`
}

// Match reports whether r passes every filter. The date range keeps rows whose
// whole [start, end] span lies inside [From, To].
func (f Filter) Match(r Row) bool {
	if len(f.Statuses) > 0 && !contains(f.Statuses, r.Status) {
		return false
	}
	if len(f.Resources) > 0 && !contains(f.Resources, r.Resource) {
		return false
	}
	if len(f.Priorities) > 0 && !contains(f.Priorities, r.Priority) {
		return false
	}
	if !f.From.IsZero() && r.StartDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.EndDate.After(f.To) {
		return false
	}
	return true
}

func contains[T comparable](set []T, v T) bool {
	for _, item := range set {
		if item == v {
			return true
		}
	}
	return false
}

// RowOf flattens one task of p.
func RowOf(p *model.Project, t model.Task) Row {
	return Row{
		ID:           t.ID,
		Name:         t.Name,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		Resource:     t.Resource,
		Status:       t.Status,
		Priority:     t.Priority,
		Dependencies: JoinNames(task.DependencyNames(p, t.ID)),
		Description:  t.Description,
		Duration:     t.Duration(),
	}
}

// ToRows returns the filtered rows of p ordered by key. An empty key keeps
// project order.
func ToRows(p *model.Project, f Filter, key SortKey) []Row {
	if p == nil {
		return nil
	}
	rows := make([]Row, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		row := RowOf(p, t)
		if f.Match(row) {
			rows = append(rows, row)
		}
	}
	SortRows(rows, key)
	return rows
}

// Resources lists the distinct resources of p in first-seen order.
func Resources(p *model.Project) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, t := range p.Tasks {
		if _, ok := seen[t.Resource]; ok {
			continue
		}
		seen[t.Resource] = struct{}{}
		out = append(out, t.Resource)
	}
	return out
}

// JoinNames renders dependency names for display.
func JoinNames(names []string) string {
	return strings.Join(names, DependencySeparator)
}

// ParseNames splits a dependency display string into task names. A name may
// itself contain commas: at each position the longest run of comma separated
// parts that forms a known name is taken. Other parts are returned trimmed,
// one name each. Blank entries are skipped.
func ParseNames(value string, known func(name string) bool) []string {
	parts := strings.Split(value, ",")
	var out []string
	for i := 0; i < len(parts); {
		name, next := strings.TrimSpace(parts[i]), i+1
		for j := len(parts); j > i+1; j-- {
			if candidate := strings.TrimSpace(strings.Join(parts[i:j], ",")); known(candidate) {
				name, next = candidate, j
				break
			}
		}
		if name != "" {
			out = append(out, name)
		}
		i = next
	}
	return out
}

// SortRows orders rows in place with a stable sort. Duration sorts longest first;
// every other key sorts ascending.
func SortRows(rows []Row, key SortKey) {
	less := key.less()
	if less == nil {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}
