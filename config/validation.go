package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a loaded Config for values the client cannot run with.
func Validate(cfg *Config) error {
	if cfg.APIBaseURL == "" {
		return ValidationError{Field: "INERTIAFIT_API_URL", Message: "must not be empty"}
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{Field: "INERTIAFIT_API_URL", Message: fmt.Sprintf("not a valid URL: %q", cfg.APIBaseURL)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationError{Field: "INERTIAFIT_API_URL", Message: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.SessionPath == "" {
		return ValidationError{Field: "INERTIAFIT_SESSION_PATH", Message: "must not be empty"}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ValidationError{Field: "INERTIAFIT_LOG_LEVEL", Message: fmt.Sprintf("unknown level %q", cfg.LogLevel)}
	}

	return nil
}
