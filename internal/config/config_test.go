package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/metalagman/gantt/internal/export"
)

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()

	if err := Check(Defaults()); err != nil {
		t.Fatalf("Check(Defaults()) returned error: %v", err)
	}
}

func TestCheck_RejectsUnknownColorMode(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.Chart.ColorBy = "rainbow"
	err := Check(cfg)
	if err == nil {
		t.Fatal("expected error for unknown color mode")
	}
	if !strings.Contains(err.Error(), "color_by") {
		t.Fatalf("error = %q, want mention of color_by", err)
	}
}

func TestCheck_RejectsNonPositiveRaster(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.Export.Raster.Width = 0
	if err := Check(cfg); err == nil {
		t.Fatal("expected error for zero raster width")
	}
}

func TestCheck_RejectsUnknownDisabledStage(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.Export.Disabled = []string{"pdf"}
	if err := Check(cfg); err == nil {
		t.Fatal("expected error for unknown disabled stage")
	}
}

func TestExportOptions(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.Export.Disabled = []string{"svg", "PNG"}
	opts, err := cfg.ExportOptions()
	if err != nil {
		t.Fatalf("ExportOptions returned error: %v", err)
	}
	if len(opts.Disabled) != 2 || opts.Disabled[0] != export.FormatSVG || opts.Disabled[1] != export.FormatPNG {
		t.Fatalf("disabled = %v, want [svg png]", opts.Disabled)
	}
	if opts.RasterWidth != export.DefaultRasterWidth {
		t.Fatalf("raster width = %d, want %d", opts.RasterWidth, export.DefaultRasterWidth)
	}
}

func TestDBPath(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	if got, want := cfg.DBPath(), filepath.Join(Dir, "gantt.db"); got != want {
		t.Fatalf("DBPath() = %q, want %q", got, want)
	}
	abs := filepath.Join(t.TempDir(), "x.db")
	cfg.Data.DB = abs
	if got := cfg.DBPath(); got != abs {
		t.Fatalf("DBPath() = %q, want %q", got, abs)
	}
}
