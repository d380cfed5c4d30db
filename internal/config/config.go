// Package config defines the dashboard configuration and how it is loaded.
//
// Conventions:
// - New returns a Config filled with defaults.
// - Load layers defaults, an optional YAML file and BRENT_* environment variables.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"path/filepath"
)

// Config contains process configuration shared by the dashboard server and the notebook tool.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// DataDir is the base directory holding raw/ input files.
	DataDir string `koanf:"data_dir" validate:"required"`

	// PricesFile and EventsFile are resolved relative to DataDir unless absolute.
	PricesFile string `koanf:"prices_file" validate:"required"`
	EventsFile string `koanf:"events_file" validate:"required"`

	// NotebookPath is where the notebook generator writes its output.
	NotebookPath string `koanf:"notebook_path" validate:"required"`

	// AssetsHost is the base URL the dashboard loads echarts.min.js from.
	AssetsHost string `koanf:"assets_host" validate:"required,url"`
}

// New creates a Config with defaults matching the repository layout.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":8501",
		DataDir:      "./data",
		PricesFile:   "raw/BrentOilPrices.csv",
		EventsFile:   "raw/events_tabdata.csv",
		NotebookPath: "notebooks/01_initial_analysis.ipynb",
		AssetsHost:   "https://go-echarts.github.io/go-echarts-assets/assets/",
	}
}

// PricesPath returns the resolved path of the price series file.
func (c *Config) PricesPath() string { return c.resolve(c.PricesFile) }

// EventsPath returns the resolved path of the event annotation file.
func (c *Config) EventsPath() string { return c.resolve(c.EventsFile) }

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
