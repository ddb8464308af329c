// Package sheet reads and writes the tabular task format used for spreadsheet
// import and export.
package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/metalagman/gantt/internal/model"
	"github.com/xuri/excelize/v2"
)

// Canonical column headers.
const (
	ColTask         = "Task"
	ColStart        = "Start Date"
	ColEnd          = "End Date"
	ColResource     = "Resource"
	ColStatus       = "Status"
	ColPriority     = "Priority"
	ColDependencies = "Dependencies"
	ColDescription  = "Description"
	ColDuration     = "Duration"
)

// Required lists the columns an import cannot do without.
var Required = []string{ColTask, ColStart, ColEnd, ColResource, ColStatus, ColPriority}

// Columns is the export column order.
var Columns = []string{ColTask, ColStart, ColEnd, ColResource, ColStatus, ColPriority, ColDependencies, ColDescription, ColDuration}

var synonyms = map[string][]string{
	ColTask:         {"task", "tâche", "tache", "nom", "name"},
	ColStart:        {"start date", "date de début", "date début", "date de debut", "début", "debut", "start"},
	ColEnd:          {"end date", "date de fin", "date fin", "fin", "end"},
	ColResource:     {"resource", "responsable", "ressource", "assigned to", "assigné à"},
	ColStatus:       {"status", "statut", "état", "etat", "state"},
	ColPriority:     {"priority", "priorité", "priorite", "importance"},
	ColDependencies: {"dependencies", "dépendances", "dependances", "prédécesseurs", "predecessors"},
	ColDescription:  {"description", "notes", "commentaire", "details"},
	ColDuration:     {"duration", "durée", "duree"},
}

// Sheet is a header row plus data records. Records may be ragged.
type Sheet struct {
	Header  []string
	Records [][]string
	// Serials is set for workbooks, whose date cells are read as raw serial
	// day numbers.
	Serials bool
}

// CanonicalColumn maps a header cell to its canonical name. Unknown headers are
// returned trimmed and unchanged.
func CanonicalColumn(header string) string {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	for canonical, names := range synonyms {
		for _, name := range names {
			if key == name {
				return canonical
			}
		}
	}
	return strings.TrimSpace(header)
}

// Normalize renames synonym headers to canonical names. When two headers map to
// the same column the first one wins and the later one keeps its original name.
func Normalize(s Sheet) Sheet {
	out := Sheet{Header: make([]string, len(s.Header)), Records: s.Records, Serials: s.Serials}
	seen := map[string]struct{}{}
	for i, h := range s.Header {
		c := CanonicalColumn(h)
		if _, dup := seen[c]; dup {
			out.Header[i] = h
			continue
		}
		seen[c] = struct{}{}
		out.Header[i] = c
	}
	return out
}

// Missing returns the required columns absent from a normalised header.
func (s Sheet) Missing() []string {
	idx := s.index()
	var out []string
	for _, col := range Required {
		if _, ok := idx[col]; !ok {
			out = append(out, col)
		}
	}
	return out
}

func (s Sheet) index() map[string]int {
	idx := make(map[string]int, len(s.Header))
	for i, h := range s.Header {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}

// Value returns the trimmed cell of rec under col, or "".
func (s Sheet) Value(rec []string, col string) string {
	i, ok := s.index()[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// maxSerial is 9999-12-31, the last day a workbook can hold.
const maxSerial = 2958465

// ParseSerial parses a spreadsheet serial day number.
func ParseSerial(value string) (model.Date, error) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return model.Date{}, fmt.Errorf("unrecognised date %q", value)
	}
	if serial < 1 || serial > maxSerial {
		return model.Date{}, fmt.Errorf("date serial %q out of range", value)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return model.Date{}, fmt.Errorf("date serial %q: %w", value, err)
	}
	return model.DateOf(t), nil
}

// ParseCell parses a date cell. Serial day numbers are only accepted from
// workbooks; a bare number in a CSV file is not a date.
func (s Sheet) ParseCell(value string) (model.Date, error) {
	d, err := model.ParseDate(value)
	if err == nil || !s.Serials {
		return d, err
	}
	if d, serr := ParseSerial(value); serr == nil {
		return d, nil
	}
	return model.Date{}, err
}

// Validate reports whether a sheet can be imported, with a human readable reason.
func Validate(s Sheet) (bool, string) {
	s = Normalize(s)
	if missing := s.Missing(); len(missing) > 0 {
		return false, "missing columns: " + strings.Join(missing, ", ")
	}
	for _, rec := range s.Records {
		if blank(rec) {
			continue
		}
		start, err1 := s.ParseCell(s.Value(rec, ColStart))
		end, err2 := s.ParseCell(s.Value(rec, ColEnd))
		if err1 != nil || err2 != nil {
			return false, "some dates are invalid"
		}
		if end.Before(start) {
			return false, "some end dates are earlier than their start dates"
		}
	}
	return true, "the file is valid"
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Example returns the onboarding sample: seven tasks starting 15 days before today.
func Example(today model.Date) Sheet {
	start := today.AddDays(-15)
	type sample struct {
		name, resource, status, priority, deps, desc string
		from, to                                     int
	}
	samples := []sample{
		{"Requirements analysis", "Alice Martin", "Done", "High", "", "Gather and analyse the customer requirements", 0, 13},
		{"Design", "Thomas Dubois", "Done", "High", "Requirements analysis", "Architecture and interface design", 14, 29},
		{"Backend development", "Sophie Bernard", "In progress", "Critical", "Design", "Backend features", 30, 50},
		{"Frontend development", "Nicolas Lambert", "In progress", "Critical", "Design", "User interfaces", 45, 65},
		{"Unit tests", "Thomas Dubois", "Not started", "Medium", "Backend development", "Unit tests for every module", 60, 70},
		{"Integration tests", "Sophie Bernard", "Not started", "Medium", "Frontend development, Unit tests", "Integration tests between modules", 75, 85},
		{"Deployment", "Nicolas Lambert", "Not started", "High", "Integration tests", "Production rollout", 90, 97},
	}
	out := Sheet{Header: append([]string(nil), Columns[:8]...)}
	for _, s := range samples {
		out.Records = append(out.Records, []string{
			s.name,
			start.AddDays(s.from).String(),
			start.AddDays(s.to).String(),
			s.resource,
			s.status,
			s.priority,
			s.deps,
			s.desc,
		})
	}
	return out
}

// ExampleFor is Example anchored on the day of now.
func ExampleFor(now time.Time) Sheet {
	return Example(model.DateOf(now))
}
