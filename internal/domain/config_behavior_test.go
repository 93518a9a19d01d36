package domain_test

import (
	"testing"
	"time"

	"github.com/doeshing/raix/internal/domain"
)

// TestConfig_ExecuteURL tests joining base URL and path
func TestConfig_ExecuteURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint domain.EndpointSettings
		want     string
	}{
		{
			name:     "uses defaults when empty",
			endpoint: domain.EndpointSettings{},
			want:     "https://recursive-ai-executor.onrender.com/execute",
		},
		{
			name:     "trims trailing slash from base",
			endpoint: domain.EndpointSettings{BaseURL: "http://localhost:8000/", Path: "/execute"},
			want:     "http://localhost:8000/execute",
		},
		{
			name:     "adds leading slash to path",
			endpoint: domain.EndpointSettings{BaseURL: "http://localhost:8000", Path: "run"},
			want:     "http://localhost:8000/run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{Endpoint: tt.endpoint}
			if got := cfg.ExecuteURL(); got != tt.want {
				t.Errorf("ExecuteURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestConfig_MaxAttempts tests the retry cap fallback
func TestConfig_MaxAttempts(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  int
	}{
		{name: "zero falls back to default", value: 0, want: 3},
		{name: "negative falls back to default", value: -2, want: 3},
		{name: "explicit value kept", value: 5, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{Retry: domain.RetrySettings{MaxAttempts: tt.value}}
			if got := cfg.MaxAttempts(); got != tt.want {
				t.Errorf("MaxAttempts() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestConfig_Durations tests timeout and delay parsing
func TestConfig_Durations(t *testing.T) {
	cfg := domain.Config{
		Endpoint: domain.EndpointSettings{Timeout: "15s"},
		Retry:    domain.RetrySettings{Delay: "250ms"},
	}
	if got := cfg.AttemptTimeout(); got != 15*time.Second {
		t.Errorf("AttemptTimeout() = %v, want 15s", got)
	}
	if got := cfg.RetryDelay(); got != 250*time.Millisecond {
		t.Errorf("RetryDelay() = %v, want 250ms", got)
	}

	cfg.Endpoint.Timeout = "soon"
	cfg.Retry.Delay = "-1s"
	if got := cfg.AttemptTimeout(); got != domain.DefaultAttemptTimeout {
		t.Errorf("AttemptTimeout() with invalid value = %v, want default", got)
	}
	if got := cfg.RetryDelay(); got != 0 {
		t.Errorf("RetryDelay() with negative value = %v, want 0", got)
	}
}

// TestConfig_ExportSettings tests export defaults
func TestConfig_ExportSettings(t *testing.T) {
	cfg := domain.Config{}
	if got := cfg.ExportPrefix(); got != "recursive-ai-logs-" {
		t.Errorf("ExportPrefix() = %q", got)
	}
	if got := cfg.ExportDir(); got != "." {
		t.Errorf("ExportDir() = %q", got)
	}
}

// TestConfig_HistoryBackend tests backend normalization
func TestConfig_HistoryBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"", domain.HistoryBackendSQLite},
		{"SQLite", domain.HistoryBackendSQLite},
		{"jsonl", domain.HistoryBackendJSONL},
		{"JSONL", domain.HistoryBackendJSONL},
		{"postgres", domain.HistoryBackendSQLite},
	}

	for _, tt := range tests {
		cfg := domain.Config{History: domain.HistorySettings{Backend: tt.backend}}
		if got := cfg.HistoryBackend(); got != tt.want {
			t.Errorf("HistoryBackend(%q) = %q, want %q", tt.backend, got, tt.want)
		}
	}
}

// TestConfig_ValidateConsistency tests cross-field validation
func TestConfig_ValidateConsistency(t *testing.T) {
	tests := []struct {
		name      string
		config    domain.Config
		wantError bool
	}{
		{
			name:   "defaults are consistent",
			config: domain.Config{},
		},
		{
			name: "rejects non-http scheme",
			config: domain.Config{
				Endpoint: domain.EndpointSettings{BaseURL: "ftp://example.com"},
			},
			wantError: true,
		},
		{
			name: "rejects missing host",
			config: domain.Config{
				Endpoint: domain.EndpointSettings{BaseURL: "http://"},
			},
			wantError: true,
		},
		{
			name: "rejects too many attempts",
			config: domain.Config{
				Retry: domain.RetrySettings{MaxAttempts: 50},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateConsistency()
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateConsistency() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
