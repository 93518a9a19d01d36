package logstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/ports"
)

// Exporter writes the session log to a dated JSON file.
type Exporter struct {
	Store  ports.LogStore
	Dir    string
	Prefix string
	Now    func() time.Time
}

// NewExporter builds an exporter for store.
func NewExporter(store ports.LogStore, dir, prefix string) *Exporter {
	return &Exporter{Store: store, Dir: dir, Prefix: prefix, Now: time.Now}
}

// Bytes returns the encoded log as it would be exported.
func (e *Exporter) Bytes() ([]byte, error) {
	return Encode(e.Store.Records())
}

// Export implements ports.LogExporter. An export of the same day replaces
// the previous file.
func (e *Exporter) Export() (domain.ExportResult, error) {
	records := e.Store.Records()
	data, err := Encode(records)
	if err != nil {
		return domain.ExportResult{}, fmt.Errorf("encode session log: %w", err)
	}

	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return domain.ExportResult{}, fmt.Errorf("create export dir: %w", err)
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	path := filepath.Join(dir, FileName(e.Prefix, now()))
	if err := writeFileAtomic(path, data); err != nil {
		return domain.ExportResult{}, fmt.Errorf("write %s: %w", path, err)
	}

	return domain.ExportResult{Path: path, Count: len(records), Bytes: len(data)}, nil
}

// WriteTo implements io.WriterTo with the exported bytes.
func (e *Exporter) WriteTo(w io.Writer) (int64, error) {
	data, err := e.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".raix-export-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(domain.FilePermissions); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var _ ports.LogExporter = (*Exporter)(nil)
