package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ExecuteURL joins the endpoint base URL and request path.
func (c *Config) ExecuteURL() string {
	base := strings.TrimRight(c.Endpoint.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	path := c.Endpoint.Path
	if path == "" {
		path = DefaultExecutePath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// AttemptTimeout returns the per-attempt network timeout.
// Invalid or missing values fall back to DefaultAttemptTimeout.
func (c *Config) AttemptTimeout() time.Duration {
	return parseDurationOr(c.Endpoint.Timeout, DefaultAttemptTimeout)
}

// MaxAttempts returns the retry cap for one generation action.
func (c *Config) MaxAttempts() int {
	if c.Retry.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return c.Retry.MaxAttempts
}

// RetryDelay returns the pause between failed attempts.
func (c *Config) RetryDelay() time.Duration {
	return parseDurationOr(c.Retry.Delay, 0)
}

// ExportPrefix returns the export file name prefix.
func (c *Config) ExportPrefix() string {
	if c.Export.Prefix == "" {
		return DefaultExportPrefix
	}
	return c.Export.Prefix
}

// ExportDir returns the directory exports are written to.
func (c *Config) ExportDir() string {
	if c.Export.Dir == "" {
		return "."
	}
	return c.Export.Dir
}

// IsHistoryEnabled reports whether finished records are archived.
func (c *Config) IsHistoryEnabled() bool {
	return c.History.Enabled
}

// HistoryBackend returns the archive backend name.
func (c *Config) HistoryBackend() string {
	switch strings.ToLower(c.History.Backend) {
	case HistoryBackendJSONL:
		return HistoryBackendJSONL
	default:
		return HistoryBackendSQLite
	}
}

// ValidateConsistency checks relationships between settings.
func (c *Config) ValidateConsistency() error {
	parsed, err := url.Parse(c.ExecuteURL())
	if err != nil {
		return fmt.Errorf("endpoint.base_url invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("endpoint.base_url must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("endpoint.base_url has no host")
	}
	if c.MaxAttempts() > MaxAllowedAttempts {
		return fmt.Errorf("retry.max_attempts must be <= %d", MaxAllowedAttempts)
	}
	return nil
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
