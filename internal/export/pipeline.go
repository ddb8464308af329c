// Package export renders timeline scenes through an ordered chain of renderers,
// falling through to the next stage whenever one fails.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/metalagman/gantt/internal/timeline"
	"github.com/rs/zerolog/log"
)

// Format identifies a renderer output.
type Format string

const (
	FormatSVG     Format = "svg"
	FormatPNG     Format = "png"
	FormatHTML    Format = "html"
	FormatScene   Format = "scene"
	FormatText    Format = "text"
	FormatFailure Format = "failure"
)

// ParseFormat accepts a format name.
func ParseFormat(value string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(value)))
	switch f {
	case FormatSVG, FormatPNG, FormatHTML, FormatScene, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", value)
}

// ErrUnavailable is returned by stages that cannot run in this process.
var ErrUnavailable = errors.New("renderer unavailable")

// Renderer is one stage of the chain.
type Renderer interface {
	Format() Format
	MIMEType() string
	Render(ctx context.Context, scene timeline.Scene) ([]byte, error)
}

// RenderError records why a stage was skipped.
type RenderError struct {
	Stage Format
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Result is the terminal output of the chain.
type Result struct {
	Payload  []byte
	MIMEType string
	Format   Format
	Failures []error
}

// Extension returns a file extension for the payload.
func (r Result) Extension() string {
	switch r.Format {
	case FormatSVG:
		return ".svg"
	case FormatPNG:
		return ".png"
	case FormatText:
		return ".txt"
	default:
		return ".html"
	}
}

// Options configures the default chain.
type Options struct {
	RasterWidth  int
	RasterHeight int
	RasterScale  float64
	Disabled     []Format
}

// Pipeline is an ordered renderer chain ending in a static failure document.
type Pipeline struct {
	stages []Renderer
}

// NewPipeline builds a chain from explicit stages.
func NewPipeline(stages ...Renderer) *Pipeline {
	return &Pipeline{stages: stages}
}

// New builds the default chain: SVG, PNG, interactive HTML, scene text.
// Disabled formats are kept in place as unavailable stages.
func New(opts Options) *Pipeline {
	stages := []Renderer{
		SVG{},
		PNG{Width: opts.RasterWidth, Height: opts.RasterHeight, Scale: opts.RasterScale},
		HTML{},
		SceneText{},
	}
	for i, stage := range stages {
		for _, off := range opts.Disabled {
			if stage.Format() == off {
				stages[i] = Unavailable{Renderer: stage}
			}
		}
	}
	return NewPipeline(stages...)
}

// Formats lists the chain order.
func (p *Pipeline) Formats() []Format {
	out := make([]Format, 0, len(p.stages))
	for _, s := range p.stages {
		out = append(out, s.Format())
	}
	return out
}

// Export runs the whole chain. It never fails: when every stage fails the
// static failure document is returned.
func (p *Pipeline) Export(ctx context.Context, scene timeline.Scene) Result {
	return p.run(ctx, scene, p.stages)
}

// ExportFrom starts the chain at the stage producing f.
func (p *Pipeline) ExportFrom(ctx context.Context, scene timeline.Scene, f Format) (Result, error) {
	for i, s := range p.stages {
		if s.Format() == f {
			return p.run(ctx, scene, p.stages[i:]), nil
		}
	}
	return Result{}, fmt.Errorf("format %q is not part of the export chain", f)
}

func (p *Pipeline) run(ctx context.Context, scene timeline.Scene, stages []Renderer) Result {
	var failures []error
	for _, stage := range stages {
		payload, err := safeRender(ctx, stage, scene)
		if err == nil {
			return Result{
				Payload:  payload,
				MIMEType: stage.MIMEType(),
				Format:   stage.Format(),
				Failures: failures,
			}
		}
		rerr := &RenderError{Stage: stage.Format(), Err: err}
		log.Warn().Err(err).Str("stage", string(stage.Format())).Msg("export stage failed, falling through")
		failures = append(failures, rerr)
	}
	return Result{
		Payload:  failureDocument(scene.Title, failures),
		MIMEType: mimeHTML,
		Format:   FormatFailure,
		Failures: failures,
	}
}

func safeRender(ctx context.Context, stage Renderer, scene timeline.Scene) (payload []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	payload, err = stage.Render(ctx, scene)
	if err == nil && len(payload) == 0 {
		err = errors.New("renderer produced no output")
	}
	return payload, err
}

// Unavailable wraps a stage that must be skipped.
type Unavailable struct {
	Renderer
}

// Render always fails with ErrUnavailable.
func (Unavailable) Render(context.Context, timeline.Scene) ([]byte, error) {
	return nil, ErrUnavailable
}
