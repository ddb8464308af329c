package view

import (
	"github.com/metalagman/gantt/internal/model"
)

// Field names an editable row column.
type Field string

const (
	FieldName         Field = "name"
	FieldStart        Field = "start_date"
	FieldEnd          Field = "end_date"
	FieldResource     Field = "resource"
	FieldStatus       Field = "status"
	FieldPriority     Field = "priority"
	FieldDependencies Field = "dependencies"
	FieldDescription  Field = "description"
)

// Fields lists the editable columns in table order. Duration is derived.
func Fields() []Field {
	return []Field{
		FieldName,
		FieldStart,
		FieldEnd,
		FieldResource,
		FieldStatus,
		FieldPriority,
		FieldDependencies,
		FieldDescription,
	}
}

// Label is the column title of f.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Task"
	case FieldStart:
		return "Start"
	case FieldEnd:
		return "End"
	case FieldResource:
		return "Resource"
	case FieldStatus:
		return "Status"
	case FieldPriority:
		return "Priority"
	case FieldDependencies:
		return "Dependencies"
	case FieldDescription:
		return "Description"
	}
	return string(f)
}

// Get renders one cell of r as text.
func (r Row) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldStart:
		return r.StartDate.String()
	case FieldEnd:
		return r.EndDate.String()
	case FieldResource:
		return r.Resource
	case FieldStatus:
		return r.Status.Label()
	case FieldPriority:
		return r.Priority.Label()
	case FieldDependencies:
		return r.Dependencies
	case FieldDescription:
		return r.Description
	}
	return ""
}

// Set parses value into one cell of r. Dates, status and priority are parsed
// here; task level rules are checked when the rows are applied. Changing a date
// updates Duration.
func (r *Row) Set(f Field, value string) error {
	switch f {
	case FieldName:
		r.Name = value
	case FieldStart, FieldEnd:
		d, err := model.ParseDate(value)
		if err != nil {
			return model.Validationf("%s: %v", f.Label(), err)
		}
		if f == FieldStart {
			r.StartDate = d
		} else {
			r.EndDate = d
		}
		r.Duration = r.StartDate.DaysUntil(r.EndDate) + 1
	case FieldResource:
		r.Resource = value
	case FieldStatus:
		s, err := model.ParseStatus(value)
		if err != nil {
			return err
		}
		r.Status = s
	case FieldPriority:
		p, err := model.ParsePriority(value)
		if err != nil {
			return err
		}
		r.Priority = p
	case FieldDependencies:
		r.Dependencies = value
	case FieldDescription:
		r.Description = value
	default:
		return model.Validationf("unknown field %q", f)
	}
	return nil
}
