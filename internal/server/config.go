package server

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig
const (
	EnvAddr           = "DASHBOARD_ADDR"
	EnvAllowedOrigins = "DASHBOARD_ALLOWED_ORIGINS"
	EnvMaxUploadMB    = "DASHBOARD_MAX_UPLOAD_MB"
	EnvLogLevel       = "DASHBOARD_LOG_LEVEL"
	EnvTimezone       = "DASHBOARD_TIMEZONE"
	EnvConcurrency    = "DASHBOARD_CONCURRENCY"
)

const (
	defaultAddr        = ":8080"
	defaultMaxUploadMB = 32
	defaultConcurrency = 4
)

// Config holds the server configuration.
type Config struct {
	Addr           string         // Listen address, e.g. ":8080"
	AllowedOrigins []string       // CORS origins, "*" allows any
	MaxUploadBytes int64          // Upper bound of a request body
	LogLevel       slog.Level     // Minimum level of the server log
	Location       *time.Location // Timezone of timestamps without an offset
	Concurrency    int            // Chart kinds computed in parallel per request
}

// DefaultConfig returns the configuration used when no environment variable
// is set.
func DefaultConfig() Config {
	return Config{
		Addr:           defaultAddr,
		AllowedOrigins: []string{"*"},
		MaxUploadBytes: defaultMaxUploadMB << 20,
		LogLevel:       slog.LevelInfo,
		Location:       time.UTC,
		Concurrency:    defaultConcurrency,
	}
}

// LoadConfig reads the configuration from the environment after loading the
// given .env files, or ".env" when none are given. Missing .env files are not
// an error.
func LoadConfig(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}

	config := DefaultConfig()

	if v, ok := os.LookupEnv(EnvAddr); ok && v != "" {
		config.Addr = v
	}

	if v, ok := os.LookupEnv(EnvAllowedOrigins); ok && v != "" {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		config.AllowedOrigins = origins
	}

	if v, ok := os.LookupEnv(EnvMaxUploadMB); ok && v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvMaxUploadMB, err)
		}
		config.MaxUploadBytes = mb << 20
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		if err := config.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvLogLevel, err)
		}
	}

	if v, ok := os.LookupEnv(EnvTimezone); ok && v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvTimezone, err)
		}
		config.Location = loc
	}

	if v, ok := os.LookupEnv(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvConcurrency, err)
		}
		config.Concurrency = n
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("at least one allowed origin is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid upload limit: %d bytes", c.MaxUploadBytes)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d", c.Concurrency)
	}
	return nil
}
