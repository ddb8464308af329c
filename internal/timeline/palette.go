package timeline

import (
	"fmt"
	"strings"

	"github.com/metalagman/gantt/internal/model"
)

// ColorBy selects the attribute that drives bar colours.
type ColorBy string

const (
	ColorByStatus   ColorBy = "status"
	ColorByPriority ColorBy = "priority"
	ColorByResource ColorBy = "resource"
)

// ParseColorBy accepts status, priority or resource.
func ParseColorBy(value string) (ColorBy, error) {
	switch ColorBy(strings.ToLower(strings.TrimSpace(value))) {
	case ColorByStatus, "":
		return ColorByStatus, nil
	case ColorByPriority:
		return ColorByPriority, nil
	case ColorByResource:
		return ColorByResource, nil
	}
	return "", fmt.Errorf("unknown colour mode %q", value)
}

var statusColors = map[model.Status]string{
	model.StatusNotStarted: "#9E9E9E",
	model.StatusInProgress: "#2196F3",
	model.StatusDone:       "#4CAF50",
	model.StatusLate:       "#F44336",
}

var priorityColors = map[model.Priority]string{
	model.PriorityLow:      "#81C784",
	model.PriorityMedium:   "#FFB74D",
	model.PriorityHigh:     "#FF8A65",
	model.PriorityCritical: "#E57373",
}

// qualitative is cycled through for resources in first-seen order.
var qualitative = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

const fallbackColor = "#607D8B"

// StatusColor returns the fixed colour of a status.
func StatusColor(s model.Status) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return fallbackColor
}

// PriorityColor returns the fixed colour of a priority.
func PriorityColor(p model.Priority) string {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return fallbackColor
}

// resourcePalette hands out qualitative colours in first-seen order.
type resourcePalette struct {
	assigned map[string]string
	next     int
}

func (p *resourcePalette) color(resource string) string {
	if p.assigned == nil {
		p.assigned = map[string]string{}
	}
	if c, ok := p.assigned[resource]; ok {
		return c
	}
	c := qualitative[p.next%len(qualitative)]
	p.next++
	p.assigned[resource] = c
	return c
}
