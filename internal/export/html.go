package export

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/metalagman/gantt/internal/timeline"
	"gopkg.in/yaml.v3"
)

const mimeHTML = "text/html; charset=utf-8"

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// HTML renders a self-contained interactive page. The scene is embedded as JSON
// and drawn client side, with download controls for SVG, PNG and JSON.
type HTML struct{}

// Format implements Renderer.
func (HTML) Format() Format { return FormatHTML }

// MIMEType implements Renderer.
func (HTML) MIMEType() string { return mimeHTML }

// Render implements Renderer.
func (HTML) Render(_ context.Context, s timeline.Scene) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "interactive.html", map[string]any{
		"Title": s.Title,
		"Scene": template.JS(data),
	}); err != nil {
		return nil, fmt.Errorf("execute interactive template: %w", err)
	}
	return buf.Bytes(), nil
}

// SceneText dumps the raw scene as YAML inside a minimal viewer page.
type SceneText struct{}

// Format implements Renderer.
func (SceneText) Format() Format { return FormatScene }

// MIMEType implements Renderer.
func (SceneText) MIMEType() string { return mimeHTML }

// Render implements Renderer.
func (SceneText) Render(_ context.Context, s timeline.Scene) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal scene yaml: %w", err)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "viewer.html", map[string]any{
		"Title": s.Title,
		"Body":  string(data),
	}); err != nil {
		return nil, fmt.Errorf("execute viewer template: %w", err)
	}
	return buf.Bytes(), nil
}
