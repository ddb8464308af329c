package model

import (
	"fmt"
	"strings"
)

// Status is the progress state of a task.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusLate       Status = "late"
)

var statusSynonyms = map[string]Status{
	"not_started": StatusNotStarted,
	"not started": StatusNotStarted,
	"todo":        StatusNotStarted,
	"non démarré": StatusNotStarted,
	"non demarre": StatusNotStarted,
	"in_progress": StatusInProgress,
	"in progress": StatusInProgress,
	"doing":       StatusInProgress,
	"en cours":    StatusInProgress,
	"done":        StatusDone,
	"completed":   StatusDone,
	"terminé":     StatusDone,
	"termine":     StatusDone,
	"late":        StatusLate,
	"delayed":     StatusLate,
	"en retard":   StatusLate,
}

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusDone, StatusLate}
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone, StatusLate:
		return true
	}
	return false
}

// Label returns the human readable status.
func (s Status) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	case StatusLate:
		return "Late"
	}
	return string(s)
}

// ParseStatus accepts canonical values, English labels and the French labels of
// legacy spreadsheets.
func ParseStatus(value string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if s, ok := statusSynonyms[key]; ok {
		return s, nil
	}
	return "", Validationf("unknown status %q", value)
}

// Priority is the importance of a task.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var prioritySynonyms = map[string]Priority{
	"low":      PriorityLow,
	"basse":    PriorityLow,
	"medium":   PriorityMedium,
	"moyenne":  PriorityMedium,
	"normal":   PriorityMedium,
	"high":     PriorityHigh,
	"haute":    PriorityHigh,
	"critical": PriorityCritical,
	"critique": PriorityCritical,
}

// Priorities returns every priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	return p.Rank() >= 0
}

// Rank orders priorities from low (0) to critical (3); unknown values rank -1.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	}
	return -1
}

// Label returns the human readable priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	}
	return string(p)
}

// ParsePriority accepts canonical values, English labels and French labels.
func ParsePriority(value string) (Priority, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if p, ok := prioritySynonyms[key]; ok {
		return p, nil
	}
	return "", Validationf("unknown priority %q", value)
}

// UnmarshalText validates the status on decode.
func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	*s = parsed
	return nil
}

// UnmarshalText validates the priority on decode.
func (p *Priority) UnmarshalText(data []byte) error {
	parsed, err := ParsePriority(string(data))
	if err != nil {
		return fmt.Errorf("decode priority: %w", err)
	}
	*p = parsed
	return nil
}
