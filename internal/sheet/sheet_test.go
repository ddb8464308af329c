package sheet

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestImportNormalisesTaskHeader(t *testing.T) {
	csvDoc := "Task,Start,End,Resource,Status,Priority,Dependencies\n" +
		"Design,2024-01-01,2024-01-05,Alice,Done,High,\n" +
		"Build,2024-01-06,2024-01-10,Bob,In progress,Critical,Design\n"
	s, err := ReadCSV(strings.NewReader(csvDoc))
	require.NoError(t, err)

	ok, reason := Validate(s)
	require.True(t, ok, reason)

	p, warnings, err := ToProject(s, "Imported", importTime)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Imported", p.Name)
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, "Design", p.Tasks[0].Name)
	assert.Equal(t, model.StatusDone, p.Tasks[0].Status)
	assert.Equal(t, model.PriorityCritical, p.Tasks[1].Priority)
	assert.Equal(t, []string{p.Tasks[0].ID}, p.Tasks[1].Dependencies)
	assert.True(t, strings.HasPrefix(p.Tasks[0].ID, "task-"))
	assert.Equal(t, importTime, p.CreatedAt)
}

func TestImportAcceptsFrenchHeaders(t *testing.T) {
	s := Sheet{
		Header: []string{"\ufeffTâche", "Date de début", "Date de fin", "Responsable", "Statut", "Priorité", "Dépendances"},
		Records: [][]string{
			{"Analyse", "01/01/2024", "05/01/2024", "Alice", "Terminé", "Haute", ""},
			{"Conception", "06/01/2024", "10/01/2024", "Thomas", "En cours", "Critique", "Analyse, Inconnue"},
		},
	}
	p, warnings, err := ToProject(s, "FR", importTime)
	require.NoError(t, err)
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, model.NewDate(2024, 1, 5), p.Tasks[0].EndDate)
	assert.Equal(t, model.StatusInProgress, p.Tasks[1].Status)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Inconnue", warnings[0].Ref)
	assert.Equal(t, model.ReasonUnknownName, warnings[0].Reason)
}

func TestValidateRejectsEndBeforeStart(t *testing.T) {
	s := Sheet{
		Header: Required,
		Records: [][]string{
			{"A", "2024-01-05", "2024-01-01", "Alice", "done", "low"},
		},
	}
	ok, reason := Validate(s)
	assert.False(t, ok)
	assert.Equal(t, "some end dates are earlier than their start dates", reason)

	_, _, err := ToProject(s, "x", importTime)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestValidateMissingColumnsAndBadDates(t *testing.T) {
	ok, reason := Validate(Sheet{Header: []string{"Name", "Start"}})
	assert.False(t, ok)
	assert.Equal(t, "missing columns: End Date, Resource, Status, Priority", reason)

	ok, reason = Validate(Sheet{
		Header:  Required,
		Records: [][]string{{"A", "not a date", "2024-01-01", "Alice", "done", "low"}},
	})
	assert.False(t, ok)
	assert.Equal(t, "some dates are invalid", reason)
}

func TestToProjectRejectsUnknownStatus(t *testing.T) {
	s := Sheet{
		Header:  Required,
		Records: [][]string{{"A", "2024-01-01", "2024-01-02", "Alice", "blocked", "low"}},
	}
	_, _, err := ToProject(s, "x", importTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParseCellSerial(t *testing.T) {
	book := Sheet{Serials: true}
	d, err := book.ParseCell("45292")
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2024, 1, 1), d)

	_, err = book.ParseCell("soon")
	assert.Error(t, err)
	_, err = book.ParseCell("9999999")
	assert.Error(t, err)
	_, err = book.ParseCell("-3")
	assert.Error(t, err)
}

func TestCSVRejectsBareNumberDates(t *testing.T) {
	csvDoc := "Task,Start Date,End Date,Resource,Status,Priority\n" +
		"A,2024,2025,Alice,Done,High\n"
	s, err := ReadCSV(strings.NewReader(csvDoc))
	require.NoError(t, err)

	_, err = s.ParseCell("2024")
	assert.Error(t, err)
	ok, reason := Validate(s)
	assert.False(t, ok)
	assert.Equal(t, "some dates are invalid", reason)
}

func TestXLSXAcceptsSerialDates(t *testing.T) {
	s := Sheet{
		Header:  Required,
		Records: [][]string{{"A", "45292", "45296", "Alice", "Done", "High"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, s, ""))

	got, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, got.Serials)
	ok, reason := Validate(got)
	require.True(t, ok, reason)

	p, _, err := ToProject(got, "Serials", importTime)
	require.NoError(t, err)
	require.Len(t, p.Tasks, 1)
	assert.Equal(t, model.NewDate(2024, 1, 1), p.Tasks[0].StartDate)
	assert.Equal(t, model.NewDate(2024, 1, 5), p.Tasks[0].EndDate)
}

func TestXLSXRoundTrip(t *testing.T) {
	ex := Example(model.NewDate(2024, 2, 1))
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, ex, ""))

	back, err := Read("model.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, ex.Header, back.Header)
	assert.Equal(t, ex.Records[1][0], back.Records[1][0])

	p, warnings, err := ToProject(back, "Example", importTime)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, p.Tasks, 7)
	assert.Equal(t, model.NewDate(2024, 1, 17), p.Tasks[0].StartDate)
	assert.Equal(t, model.NewDate(2024, 1, 17).AddDays(97), p.Tasks[6].EndDate)
	assert.Len(t, p.Tasks[5].Dependencies, 2)
}

func TestWriteCSVOmitsID(t *testing.T) {
	rows := []view.Row{{
		ID: "task-1", Name: "Design", StartDate: model.NewDate(2024, 1, 1), EndDate: model.NewDate(2024, 1, 5),
		Resource: "Alice", Status: model.StatusDone, Priority: model.PriorityHigh, Duration: 5,
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, FromRows(rows)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Task,Start Date,End Date,Resource,Status,Priority,Dependencies,Description,Duration\n"))
	assert.Contains(t, out, "Design,2024-01-01,2024-01-05,Alice,Done,High,,,5")
	assert.NotContains(t, out, "task-1")
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("plan.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatOf("plan.ods")
	assert.Error(t, err)
}

func TestImportResolvesNamesWithCommas(t *testing.T) {
	csvDoc := "Task,Start Date,End Date,Resource,Status,Priority,Dependencies\n" +
		"\"Build, test\",2024-01-01,2024-01-03,Ann,Done,High,\n" +
		"Ship,2024-01-04,2024-01-05,Ann,Not Started,Low,\"Build, test\"\n"
	s, err := ReadCSV(strings.NewReader(csvDoc))
	require.NoError(t, err)

	p, warnings, err := ToProject(s, "Commas", importTime)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, []string{p.Tasks[0].ID}, p.Tasks[1].Dependencies)
}
