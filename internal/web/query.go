package web

import (
	"net/http"

	"github.com/metalagman/gantt/internal/app"
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/timeline"
	"github.com/metalagman/gantt/internal/view"
)

// applyQuery reads view settings from the query string:
// status, resource and priority may repeat; from and to bound the date range;
// sort, color and critical override the server defaults.
func applyQuery(st *app.State, r *http.Request) error {
	q := r.URL.Query()

	for _, v := range q["status"] {
		s, err := model.ParseStatus(v)
		if err != nil {
			return err
		}
		st.Filter.Statuses = append(st.Filter.Statuses, s)
	}
	for _, v := range q["priority"] {
		p, err := model.ParsePriority(v)
		if err != nil {
			return err
		}
		st.Filter.Priorities = append(st.Filter.Priorities, p)
	}
	st.Filter.Resources = append(st.Filter.Resources, q["resource"]...)

	if v := q.Get("from"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return model.Validationf("from: %v", err)
		}
		st.Filter.From = d
	}
	if v := q.Get("to"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return model.Validationf("to: %v", err)
		}
		st.Filter.To = d
	}

	if q.Has("sort") {
		key, err := view.ParseSortKey(q.Get("sort"))
		if err != nil {
			return err
		}
		st.Sort = key
	}
	if q.Has("color") {
		c, err := timeline.ParseColorBy(q.Get("color"))
		if err != nil {
			return err
		}
		st.ColorBy = c
	}
	if q.Has("critical") {
		switch q.Get("critical") {
		case "1", "true", "on":
			st.HighlightCritical = true
		default:
			st.HighlightCritical = false
		}
	}
	return nil
}
