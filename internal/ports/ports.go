// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The retry loop, session reducer and doctor only see
// these interfaces; the HTTP transport, the session log, the history archive and
// the logging backend live behind them.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ExecutionBackend, LogStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"io"

	"github.com/doeshing/raix/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.raix/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ExecutionBackend performs a single round-trip to the remote executor.
// It never retries; the retry policy belongs to the caller.
type ExecutionBackend interface {
	Execute(ctx context.Context, prompt string) (domain.ExecutionResult, error)
}

// EndpointProber checks whether the remote executor is reachable.
type EndpointProber interface {
	Probe(ctx context.Context) error
}

// LogStore is the append-only, in-memory session log.
type LogStore interface {
	Append(record domain.AttemptRecord)
	Records() []domain.AttemptRecord
	Len() int
}

// LogExporter serializes the session log.
type LogExporter interface {
	Export() (domain.ExportResult, error)
	WriteTo(w io.Writer) (int64, error)
}

// HistoryRepository archives finished records across sessions.
type HistoryRepository interface {
	Save(record domain.ArchivedRecord) error
	Records(limit int, search string) ([]domain.ArchivedRecord, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, files, journald).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
