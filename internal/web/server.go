// Package web serves the planner over HTTP: project list, chart page, chart and
// table downloads.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/metalagman/gantt/internal/app"
	"github.com/metalagman/gantt/internal/export"
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/sheet"
	"github.com/metalagman/gantt/internal/timeline"
	"github.com/metalagman/gantt/internal/view"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 10 << 20

// Defaults are the view settings used when a request does not set them.
type Defaults struct {
	Sort              view.SortKey
	ColorBy           timeline.ColorBy
	HighlightCritical bool
}

// Server provides the web UI handlers.
type Server struct {
	svc       *app.Service
	defaults  Defaults
	now       func() time.Time
	templates *template.Template
}

//go:embed templates/*.html
var templatesFS embed.FS

// NewServer creates a new web server.
func NewServer(svc *app.Service, defaults Defaults) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"percent": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{
		svc:       svc,
		defaults:  defaults,
		now:       time.Now,
		templates: tmpl,
	}, nil
}

// Routes returns the router for the web UI.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /example.xlsx", s.handleExample)
	mux.HandleFunc("POST /projects", s.handleCreate)
	mux.HandleFunc("POST /projects/import", s.handleImport)
	mux.HandleFunc("GET /projects/{id}", s.handleProject)
	mux.HandleFunc("GET /projects/{id}/chart", s.handleChart)
	mux.HandleFunc("GET /projects/{id}/tasks.csv", s.handleRows(sheet.FormatCSV))
	mux.HandleFunc("GET /projects/{id}/tasks.xlsx", s.handleRows(sheet.FormatXLSX))
	mux.HandleFunc("POST /projects/{id}/rename", s.handleRename)
	mux.HandleFunc("POST /projects/{id}/duplicate", s.handleDuplicate)
	mux.HandleFunc("POST /projects/{id}/delete", s.handleDelete)
	mux.HandleFunc("POST /projects/{id}/tasks/{task}/done", s.handleMarkDone)
	mux.HandleFunc("POST /projects/{id}/tasks/{task}/delete", s.handleDeleteTask)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Projects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.render(w, "index.html", map[string]any{"Projects": items})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	st := s.newState()
	p, err := s.svc.CreateProject(r.Context(), st, r.FormValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/projects/"+p.ID, http.StatusSeeOther)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	sh, err := sheet.Read(header.Filename, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ok, reason := sheet.Validate(sh); !ok {
		http.Error(w, reason, http.StatusUnprocessableEntity)
		return
	}
	name := r.FormValue("name")
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	}
	p, _, err := s.svc.ImportSheet(r.Context(), s.newState(), sh, name)
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/projects/"+p.ID, http.StatusSeeOther)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	s.render(w, "project.html", map[string]any{
		"Project":    st.Project,
		"State":      st,
		"Rows":       s.svc.Rows(st),
		"Stats":      s.svc.Stats(st),
		"Resources":  view.Resources(st.Project),
		"Statuses":   model.Statuses(),
		"Priorities": model.Priorities(),
		"SortKeys":   view.SortKeys(),
		"Query":      template.URL(r.URL.RawQuery),
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	var res export.Result
	if name := r.URL.Query().Get("format"); name != "" {
		f, err := export.ParseFormat(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if res, err = s.svc.ExportChartAs(r.Context(), st, f); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		res = s.svc.ExportChart(r.Context(), st)
	}
	for _, f := range res.Failures {
		log.Debug().Err(f).Str("project_id", st.Project.ID).Msg("chart stage skipped")
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(res.Payload))
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("X-Chart-Format", string(res.Format))
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="gantt%s"`, res.Extension()))
	}
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	_, _ = w.Write(res.Payload)
}

func (s *Server) handleRows(f sheet.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := s.load(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := s.svc.ExportRows(st, &buf, f); err != nil {
			writeError(w, err)
			return
		}
		mime := sheet.MIMECSV
		if f == sheet.FormatXLSX {
			mime = sheet.MIMEXLSX
		}
		w.Header().Set("Content-Type", mime)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tasks.%s"`, f))
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *Server) handleExample(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := sheet.WriteXLSX(&buf, sheet.ExampleFor(s.now()), "Example"); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", sheet.MIMEXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="gantt_example.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	if err := s.svc.RenameProject(r.Context(), st, r.FormValue("name")); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/projects/"+st.Project.ID, http.StatusSeeOther)
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	p, err := s.svc.DuplicateProject(r.Context(), st)
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/projects/"+p.ID, http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteProject(r.Context(), s.newState(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleMarkDone(w http.ResponseWriter, r *http.Request) {
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	if err := s.svc.MarkDone(r.Context(), st, r.PathValue("task")); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/projects/"+st.Project.ID, http.StatusSeeOther)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	st, ok := s.load(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteTask(r.Context(), st, r.PathValue("task")); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/projects/"+st.Project.ID, http.StatusSeeOther)
}

func (s *Server) newState() *app.State {
	return app.NewState(s.defaults.Sort, s.defaults.ColorBy, s.defaults.HighlightCritical)
}

// load opens the project named in the path with view settings from the query.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*app.State, bool) {
	st := s.newState()
	if _, err := s.svc.LoadProject(r.Context(), st, r.PathValue("id")); err != nil {
		writeError(w, err)
		return nil, false
	}
	if err := applyQuery(st, r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return st, true
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrCycle):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
