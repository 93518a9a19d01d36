// Package history archives finished generation actions across sessions.
package history

import (
	"path/filepath"
	"strings"

	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/pkg/filesystem"
	"github.com/doeshing/raix/internal/ports"
)

// Open returns the archive configured in cfg, or nil when history is
// disabled. If SQLite cannot be opened the archive falls back to a jsonl file
// next to the configured path.
func Open(cfg domain.Config, log ports.Logger) ports.HistoryRepository {
	if !cfg.IsHistoryEnabled() {
		return nil
	}
	path := filesystem.ExpandPath(cfg.History.Path)

	if cfg.HistoryBackend() == domain.HistoryBackendJSONL {
		return NewFileStore(path)
	}

	store, err := OpenSQLiteStore(path)
	if err == nil {
		return store
	}
	fallback := strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl"
	if log != nil {
		log.Warn("sqlite history unavailable, using jsonl", map[string]interface{}{
			"path":     path,
			"fallback": fallback,
			"error":    err.Error(),
		})
	}
	return NewFileStore(fallback)
}
