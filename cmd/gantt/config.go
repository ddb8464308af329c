package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/metalagman/gantt/internal/config"
	"github.com/spf13/viper"
)

const envPrefix = "GANTT"

var defaultConfigPath = filepath.Join(config.Dir, "config.yaml")

// resolveConfigPath anchors a relative path at repoRoot. When the default YAML
// file is absent a config.json next to it is used instead.
func resolveConfigPath(repoRoot, path string) string {
	if path == "" {
		path = defaultConfigPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(repoRoot, path)
	}
	if _, err := os.Stat(path); err != nil && filepath.Ext(path) == ".yaml" {
		alt := strings.TrimSuffix(path, ".yaml") + ".json"
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return path
}

// loadConfig layers built-in defaults, the optional config file and GANTT_*
// environment variables, then validates the result.
func loadConfig(repoRoot string) (config.Config, error) {
	setDefaults(config.Defaults())
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path := resolveConfigPath(repoRoot, viper.GetString("config"))
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg config.Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := viper.Unmarshal(&cfg, hook); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	if !filepath.IsAbs(cfg.Data.Dir) {
		cfg.Data.Dir = filepath.Join(repoRoot, cfg.Data.Dir)
	}
	if err := config.Check(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setDefaults(d config.Config) {
	viper.SetDefault("data.dir", d.Data.Dir)
	viper.SetDefault("data.db", d.Data.DB)
	viper.SetDefault("chart.color_by", d.Chart.ColorBy)
	viper.SetDefault("chart.sort_by", d.Chart.SortBy)
	viper.SetDefault("chart.highlight_critical", d.Chart.HighlightCritical)
	viper.SetDefault("chart.strict_cycles", d.Chart.StrictCycles)
	viper.SetDefault("chart.title", d.Chart.Title)
	viper.SetDefault("export.raster.width", d.Export.Raster.Width)
	viper.SetDefault("export.raster.height", d.Export.Raster.Height)
	viper.SetDefault("export.raster.scale", d.Export.Raster.Scale)
	viper.SetDefault("export.disabled", d.Export.Disabled)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout.String())
}
