package task

import (
	"strings"

	"github.com/metalagman/gantt/internal/model"
)

func cycleError(path []string) error {
	return &model.Error{Kind: model.ErrCycle, Msg: strings.Join(path, " -> ")}
}

// CheckAcyclic returns a model.ErrCycle error naming one cycle in tasks, or nil.
func CheckAcyclic(tasks []model.Task) error {
	if cycle := findCycle(tasks); cycle != nil {
		return cycleError(cycle)
	}
	return nil
}

// findCycle walks tasks in project order and returns the first cycle it meets,
// closed with its starting id, e.g. [a b a]. Self references are ignored here
// because sanitize already drops them.
func findCycle(tasks []model.Task) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
	}
	color := make([]int, len(tasks))
	parent := make([]int, len(tasks))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []string
	var visit func(u int) bool
	visit = func(u int) bool {
		color[u] = gray
		for _, dep := range tasks[u].Dependencies {
			v, ok := index[dep]
			if !ok || v == u {
				continue
			}
			switch color[v] {
			case white:
				parent[v] = u
				if visit(v) {
					return true
				}
			case gray:
				path := []string{tasks[v].ID}
				for cur := u; cur != v && cur >= 0; cur = parent[cur] {
					path = append(path, tasks[cur].ID)
				}
				path = append(path, tasks[v].ID)
				// path was collected against the edge direction.
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				cycle = path
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := range tasks {
		if color[i] == white && visit(i) {
			return cycle
		}
	}
	return nil
}
