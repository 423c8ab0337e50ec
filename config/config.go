package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults used when the environment leaves a knob unset.
const (
	DefaultAPIBaseURL = "http://localhost:5000"
	defaultDirName    = ".inertiafit"
	sessionFileName   = "session.db"
)

// Config holds all configuration for the client.
type Config struct {
	// APIBaseURL is the root of the InertiaFit backend, without a trailing
	// slash.
	APIBaseURL string

	// SessionPath is the sqlite file holding the persisted session.
	SessionPath string

	// ReportDir is where exported PDF reports are written.
	ReportDir string

	// RequestTimeout bounds each HTTP request. Zero means no client-side
	// timeout; requests resolve, fail, or hang until the transport gives up.
	RequestTimeout time.Duration

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string
}

// Load builds a Config from environment variables, reading a .env file
// first when one is present.
func Load() (*Config, error) {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL: getEnv("INERTIAFIT_API_URL", DefaultAPIBaseURL),
		LogLevel:   getEnv("INERTIAFIT_LOG_LEVEL", "info"),
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	cfg.SessionPath = getEnv("INERTIAFIT_SESSION_PATH", filepath.Join(home, defaultDirName, sessionFileName))
	cfg.ReportDir = getEnv("INERTIAFIT_REPORT_DIR", ".")

	if raw := os.Getenv("INERTIAFIT_REQUEST_TIMEOUT"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("invalid INERTIAFIT_REQUEST_TIMEOUT %q", raw)
		}
		cfg.RequestTimeout = time.Duration(seconds) * time.Second
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
