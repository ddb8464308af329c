package view

import (
	"fmt"
	"strings"
)

// SortKey names the field rows are ordered by.
type SortKey string

const (
	SortNone      SortKey = ""
	SortStartDate SortKey = "start_date"
	SortEndDate   SortKey = "end_date"
	SortDuration  SortKey = "duration"
	SortResource  SortKey = "resource"
	SortPriority  SortKey = "priority"
)

// SortKeys returns the selectable keys.
func SortKeys() []SortKey {
	return []SortKey{SortStartDate, SortEndDate, SortDuration, SortResource, SortPriority}
}

// ParseSortKey accepts the canonical key or a few aliases.
func ParseSortKey(value string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return SortNone, nil
	case "start_date", "start", "start-date":
		return SortStartDate, nil
	case "end_date", "end", "end-date":
		return SortEndDate, nil
	case "duration":
		return SortDuration, nil
	case "resource":
		return SortResource, nil
	case "priority":
		return SortPriority, nil
	}
	return "", fmt.Errorf("unknown sort key %q", value)
}

func (k SortKey) less() func(a, b Row) bool {
	switch k {
	case SortStartDate:
		return func(a, b Row) bool { return a.StartDate.Before(b.StartDate) }
	case SortEndDate:
		return func(a, b Row) bool { return a.EndDate.Before(b.EndDate) }
	case SortDuration:
		return func(a, b Row) bool { return a.Duration > b.Duration }
	case SortResource:
		return func(a, b Row) bool { return a.Resource < b.Resource }
	case SortPriority:
		return func(a, b Row) bool { return a.Priority.Rank() < b.Priority.Rank() }
	}
	return nil
}
