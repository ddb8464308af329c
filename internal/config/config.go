// Package config provides configuration loading and management for gantt.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/metalagman/gantt/internal/export"
	"github.com/metalagman/gantt/internal/timeline"
	"github.com/metalagman/gantt/internal/view"
)

// Dir is the per-workspace directory holding config and data.
const Dir = ".gantt"

// Config is the root configuration.
type Config struct {
	Data   DataConfig   `json:"data"   mapstructure:"data"`
	Chart  ChartConfig  `json:"chart"  mapstructure:"chart"`
	Export ExportConfig `json:"export" mapstructure:"export"`
	Server ServerConfig `json:"server" mapstructure:"server"`
}

// DataConfig locates the project store.
type DataConfig struct {
	Dir string `json:"dir" mapstructure:"dir"`
	DB  string `json:"db"  mapstructure:"db"`
}

// ChartConfig holds the default chart options of new sessions.
type ChartConfig struct {
	ColorBy           string `json:"color_by"           mapstructure:"color_by"`
	SortBy            string `json:"sort_by"            mapstructure:"sort_by"`
	HighlightCritical bool   `json:"highlight_critical" mapstructure:"highlight_critical"`
	StrictCycles      bool   `json:"strict_cycles"      mapstructure:"strict_cycles"`
	Title             string `json:"title,omitempty"    mapstructure:"title"`
}

// ExportConfig tunes the renderer chain.
type ExportConfig struct {
	Raster   RasterConfig `json:"raster"   mapstructure:"raster"`
	Disabled []string     `json:"disabled" mapstructure:"disabled"`
}

// RasterConfig sets the raster stage canvas.
type RasterConfig struct {
	Width  int     `json:"width"  mapstructure:"width"`
	Height int     `json:"height" mapstructure:"height"`
	Scale  float64 `json:"scale"  mapstructure:"scale"`
}

// ServerConfig configures the web host.
type ServerConfig struct {
	Addr            string        `json:"addr"             mapstructure:"addr"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Data: DataConfig{
			Dir: Dir,
			DB:  "gantt.db",
		},
		Chart: ChartConfig{
			ColorBy:           string(timeline.ColorByStatus),
			SortBy:            string(view.SortStartDate),
			HighlightCritical: true,
		},
		Export: ExportConfig{
			Raster: RasterConfig{
				Width:  export.DefaultRasterWidth,
				Height: export.DefaultRasterHeight,
				Scale:  export.DefaultRasterScale,
			},
			Disabled: []string{},
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8050",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// DBPath returns the database file path. A relative db name is placed inside
// the data dir.
func (c Config) DBPath() string {
	if filepath.IsAbs(c.Data.DB) {
		return c.Data.DB
	}
	return filepath.Join(c.Data.Dir, c.Data.DB)
}

// ExportOptions converts the export section into pipeline options.
func (c Config) ExportOptions() (export.Options, error) {
	opts := export.Options{
		RasterWidth:  c.Export.Raster.Width,
		RasterHeight: c.Export.Raster.Height,
		RasterScale:  c.Export.Raster.Scale,
	}
	for _, name := range c.Export.Disabled {
		f, err := export.ParseFormat(name)
		if err != nil {
			return export.Options{}, fmt.Errorf("export.disabled: %w", err)
		}
		opts.Disabled = append(opts.Disabled, f)
	}
	return opts, nil
}

// Validate checks values the schema cannot express.
func (c Config) Validate() error {
	if _, err := timeline.ParseColorBy(c.Chart.ColorBy); err != nil {
		return fmt.Errorf("chart.color_by: %w", err)
	}
	if _, err := view.ParseSortKey(c.Chart.SortBy); err != nil {
		return fmt.Errorf("chart.sort_by: %w", err)
	}
	if _, err := c.ExportOptions(); err != nil {
		return err
	}
	if c.Data.DB == "" {
		return fmt.Errorf("data.db must not be empty")
	}
	return nil
}
