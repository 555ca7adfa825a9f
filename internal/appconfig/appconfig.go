// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the fallback when the default path does not exist.
	legacyConfigPath = "metricview.json"

	defaultTitle       = "metricview report"
	defaultOutput      = "report.html"
	defaultAddr        = ":8080"
	defaultStore       = "metricview.db"
	defaultChartWidth  = 960
	defaultChartHeight = 420
)

// ErrNoConfig is returned by Load when neither the requested nor the legacy file exists.
var ErrNoConfig = errors.New("no configuration file found")

// Chart formats accepted by ChartFormat.
const (
	ChartHTML = "html"
	ChartSVG  = "svg"
	ChartPNG  = "png"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug       bool   `json:"debug"`
	JSONMode    bool   `json:"jsonMode"`
	LogFile     string `json:"logFile,omitempty"`
	Title       string `json:"title,omitempty"`
	Output      string `json:"output,omitempty"`
	ChartFormat string `json:"chartFormat,omitempty"`
	ChartWidth  int    `json:"chartWidth,omitempty"`
	ChartHeight int    `json:"chartHeight,omitempty"`
	Addr        string `json:"addr,omitempty"`
	Watch       bool   `json:"watch"`
	Store       string `json:"store,omitempty"`
	SelectAll   bool   `json:"selectAll"`
	ConfigPath  string `json:"-"`
}

// LogFilePath returns the path to the application log file. Empty means console only.
func (c Config) LogFilePath() string {
	return strings.TrimSpace(c.LogFile)
}

// ReportTitle returns the page title, applying a default if not set.
func (c Config) ReportTitle() string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return defaultTitle
}

// OutputPath returns where the HTML report is written.
func (c Config) OutputPath() string {
	if p := strings.TrimSpace(c.Output); p != "" {
		return p
	}
	return defaultOutput
}

// Format returns the normalized chart format, html when unset.
func (c Config) Format() string {
	f := strings.ToLower(strings.TrimSpace(c.ChartFormat))
	if f == "" {
		return ChartHTML
	}
	return f
}

// Width returns the raster and SVG chart width in pixels.
func (c Config) Width() int {
	if c.ChartWidth <= 0 {
		return defaultChartWidth
	}
	return c.ChartWidth
}

// Height returns the chart height in pixels.
func (c Config) Height() int {
	if c.ChartHeight <= 0 {
		return defaultChartHeight
	}
	return c.ChartHeight
}

// ListenAddr returns the HTTP listen address.
func (c Config) ListenAddr() string {
	if a := strings.TrimSpace(c.Addr); a != "" {
		return a
	}
	return defaultAddr
}

// StorePath returns the sqlite measurement store path.
func (c Config) StorePath() string {
	if s := strings.TrimSpace(c.Store); s != "" {
		return s
	}
	return defaultStore
}

// Validate rejects settings no component can honor.
func (c Config) Validate() error {
	switch c.Format() {
	case ChartHTML, ChartSVG, ChartPNG:
	default:
		return fmt.Errorf("unsupported chart format %q (want html, svg or png)", c.ChartFormat)
	}
	if c.ChartWidth < 0 || c.ChartHeight < 0 {
		return errors.New("chart dimensions must not be negative")
	}
	return nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if err := config.Validate(); err != nil {
			return Config{}, err
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, config.Validate()
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%w (searched %q and %q)", ErrNoConfig, DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("%w at %q", ErrNoConfig, path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
