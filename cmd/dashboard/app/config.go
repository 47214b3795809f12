package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/vehicle-dashboard/internal/render"
)

const (
	defaultOutputDir = "charts"
	maxConcurrency   = 64
)

// Config represents the dashboard configuration file
type Config struct {
	Settings Settings     `yaml:"settings"`
	Charts   ChartsConfig `yaml:"charts"`
	Render   RenderConfig `yaml:"render"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel    LogLevel `yaml:"logLevel"`
	TimeZone    Location `yaml:"timezone"`    // Timezone of timestamps without an offset
	Concurrency int      `yaml:"concurrency"` // Chart kinds computed in parallel
}

// ChartsConfig selects the chart kinds to draw
type ChartsConfig struct {
	All    bool     `yaml:"all"`    // Draw every kind, Select is ignored
	Select []string `yaml:"select"` // Kind IDs, names or numbers
}

// RenderConfig represents output settings
type RenderConfig struct {
	Format render.Format     `yaml:"format"`
	Output string            `yaml:"output"` // File, or directory for PNG previews; stdout when empty
	Title  string            `yaml:"title"`  // HTML page title
	Width  int               `yaml:"width"`  // PNG preview width in pixels
	Theme  render.ColorTheme `yaml:"theme"`  // PNG colour scale of the 3D chart
}

// NewConfig returns the configuration used without a configuration file.
func NewConfig() *Config {
	return &Config{
		Settings: Settings{
			LogLevel:    LogLevel(slog.LevelInfo),
			TimeZone:    Location{time.UTC},
			Concurrency: 1,
		},
		Render: RenderConfig{
			Format: render.FormatJSON,
			Theme:  render.ViridisTheme,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	config := NewConfig()
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}

	config.Render.Format = render.Format(strings.ToLower(string(config.Render.Format)))
	config.Render.Theme = render.ColorTheme(strings.ToLower(string(config.Render.Theme)))
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Settings.Concurrency < 1 || c.Settings.Concurrency > maxConcurrency {
		return fmt.Errorf("config: concurrency must be between 1 and %d: %d given", maxConcurrency, c.Settings.Concurrency)
	}

	if _, err := render.ParseFormat(string(c.Render.Format)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Render.Width < 0 {
		return fmt.Errorf("config: width must not be negative: %d", c.Render.Width)
	}
	if c.Render.Theme != "" && !render.IsValidTheme(c.Render.Theme) {
		return fmt.Errorf("config: invalid theme: %s", c.Render.Theme)
	}

	if c.Charts.All && len(c.Charts.Select) > 0 {
		return errors.New("config: charts.all and charts.select are mutually exclusive")
	}
	return nil
}

// OutputDir returns the directory PNG previews are written to.
func (c *Config) OutputDir() string {
	if c.Render.Output == "" {
		return defaultOutputDir
	}
	return c.Render.Output
}

// LogLevel is a slog level read from its name, e.g. "debug"
type LogLevel slog.Level

func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value.Value)); err != nil {
		return fmt.Errorf("app.LogLevel: failed to parse: %s", err)
	}

	*l = LogLevel(level)
	return nil
}

func (l LogLevel) Level() slog.Level {
	return slog.Level(l)
}

// Location is a timezone read from its IANA name, e.g. "Asia/Riyadh"
type Location struct {
	*time.Location
}

func (l *Location) UnmarshalYAML(value *yaml.Node) error {
	loc, err := time.LoadLocation(value.Value)
	if err != nil {
		return fmt.Errorf("app.Location: failed to parse: %s", err)
	}

	l.Location = loc
	return nil
}
