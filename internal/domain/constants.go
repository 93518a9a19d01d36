package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for exported logs (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Endpoint defaults
const (
	// DefaultBaseURL is the hosted recursive executor.
	DefaultBaseURL = "https://recursive-ai-executor.onrender.com"
	// DefaultExecutePath is appended to the base URL for generation requests.
	DefaultExecutePath = "/execute"
	// DefaultAttemptTimeout bounds a single network attempt.
	DefaultAttemptTimeout = 60 * time.Second
	// DefaultProbeTimeout bounds the doctor reachability check.
	DefaultProbeTimeout = 10 * time.Second
)

// Retry defaults
const (
	// DefaultMaxAttempts is the attempt cap of one generation action.
	DefaultMaxAttempts = 3
	// MaxAllowedAttempts is the largest cap accepted from configuration.
	MaxAllowedAttempts = 10
)

// Export defaults
const (
	// DefaultExportPrefix prefixes the exported file name.
	DefaultExportPrefix = "recursive-ai-logs-"
	// ExportDateFormat is the date embedded in export file names.
	ExportDateFormat = "2006-01-02"
)

// History constants
const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendJSONL  = "jsonl"
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
	// MaxHistoryAnalysisRecords is the maximum number of records to analyze
	MaxHistoryAnalysisRecords = 1000
)

// Time formats
const (
	// TimestampFormat is ISO-8601 in UTC with millisecond precision.
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"
)
