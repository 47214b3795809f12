package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roman-kulish/vehicle-dashboard/internal/render"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: debug
  timezone: UTC
  concurrency: 4
charts:
  select: [rpm-histogram, "3"]
render:
  format: HTML
  title: Drive report
  width: 640
  theme: Thermal
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Settings.LogLevel.Level() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", config.Settings.LogLevel.Level())
	}
	if config.Settings.TimeZone.String() != "UTC" {
		t.Errorf("Expected UTC, got %s", config.Settings.TimeZone)
	}
	if config.Settings.Concurrency != 4 {
		t.Errorf("Expected concurrency 4, got %d", config.Settings.Concurrency)
	}
	if len(config.Charts.Select) != 2 || config.Charts.Select[1] != "3" {
		t.Errorf("Expected two selected charts, got %v", config.Charts.Select)
	}
	if config.Render.Format != render.FormatHTML {
		t.Errorf("Expected format html, got %s", config.Render.Format)
	}
	if config.Render.Theme != render.ThermalTheme {
		t.Errorf("Expected theme thermal, got %s", config.Render.Theme)
	}
	if config.OutputDir() != defaultOutputDir {
		t.Errorf("Expected output dir %s, got %s", defaultOutputDir, config.OutputDir())
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "charts:\n  all: true\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Render.Format != render.FormatJSON {
		t.Errorf("Expected format json, got %s", config.Render.Format)
	}
	if config.Settings.Concurrency != 1 {
		t.Errorf("Expected concurrency 1, got %d", config.Settings.Concurrency)
	}
	if config.Settings.LogLevel.Level() != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", config.Settings.LogLevel.Level())
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "log level",
			content: "settings:\n  logLevel: loud\n",
			errText: "app.LogLevel",
		},
		{
			name:    "timezone",
			content: "settings:\n  timezone: Mars/Olympus\n",
			errText: "app.Location",
		},
		{
			name:    "concurrency",
			content: "settings:\n  concurrency: 0\n",
			errText: "concurrency",
		},
		{
			name:    "format",
			content: "render:\n  format: pdf\n",
			errText: "unknown output format",
		},
		{
			name:    "theme",
			content: "render:\n  theme: neon\n",
			errText: "invalid theme",
		},
		{
			name:    "width",
			content: "render:\n  width: -10\n",
			errText: "width",
		},
		{
			name:    "all and select",
			content: "charts:\n  all: true\n  select: [rpm-histogram]\n",
			errText: "mutually exclusive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tc.errText) {
				t.Errorf("Expected error containing %q, got %v", tc.errText, err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
