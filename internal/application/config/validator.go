package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/raix/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if cfg.ConfigFormatVersion != "" && cfg.ConfigFormatVersion != "1" {
		return fmt.Errorf("unsupported config_format_version %q", cfg.ConfigFormatVersion)
	}
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return err
	}
	if err := validateRetry(cfg.Retry); err != nil {
		return err
	}
	if err := validateExport(cfg.Export); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	if err := validateLogging(cfg.Logging); err != nil {
		return err
	}
	return cfg.ValidateConsistency()
}

func validateEndpoint(endpoint domain.EndpointSettings) error {
	if strings.TrimSpace(endpoint.BaseURL) == "" {
		return errors.New("endpoint.base_url must be set")
	}
	if endpoint.Timeout != "" {
		d, err := time.ParseDuration(endpoint.Timeout)
		if err != nil {
			return fmt.Errorf("endpoint.timeout invalid: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("endpoint.timeout must be > 0")
		}
	}
	return nil
}

func validateRetry(retry domain.RetrySettings) error {
	if retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be >= 1")
	}
	if retry.MaxAttempts > domain.MaxAllowedAttempts {
		return fmt.Errorf("retry.max_attempts must be <= %d", domain.MaxAllowedAttempts)
	}
	if retry.Delay != "" {
		d, err := time.ParseDuration(retry.Delay)
		if err != nil {
			return fmt.Errorf("retry.delay invalid: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("retry.delay must be >= 0")
		}
	}
	return nil
}

func validateExport(export domain.ExportSettings) error {
	if strings.ContainsAny(export.Prefix, `/\`) {
		return fmt.Errorf("export.prefix must not contain path separators")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	switch strings.ToLower(history.Backend) {
	case "", domain.HistoryBackendSQLite, domain.HistoryBackendJSONL:
	default:
		return fmt.Errorf("history.backend must be sqlite|jsonl, got %s", history.Backend)
	}
	if history.Enabled && strings.TrimSpace(history.Path) == "" {
		return fmt.Errorf("history.path must be set when history is enabled")
	}
	return nil
}

func validateLogging(logging domain.LoggingSettings) error {
	switch strings.ToLower(logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %s", logging.Level)
	}
}
