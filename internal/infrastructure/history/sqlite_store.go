package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/ports"
)

// SQLiteStore persists archived records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// OpenSQLiteStore opens (or creates) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		prompt TEXT NOT NULL,
		code TEXT NOT NULL,
		output TEXT NOT NULL,
		retries INTEGER NOT NULL,
		outcome TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS attempts_session ON attempts(session_id);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.ArchivedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO attempts
		(session_id, timestamp, prompt, code, output, retries, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.SessionID,
		record.Timestamp.String(),
		record.Prompt,
		record.Code,
		record.Output,
		record.Retries,
		string(record.Outcome),
	)
	return err
}

// Records returns entries newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.ArchivedRecord, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT session_id, timestamp, prompt, code, output, retries, outcome FROM attempts")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE prompt LIKE ? OR code LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.ArchivedRecord
	for rows.Next() {
		var rec domain.ArchivedRecord
		var ts, outcome string
		if err := rows.Scan(&rec.SessionID, &ts, &rec.Prompt, &rec.Code, &rec.Output, &rec.Retries, &outcome); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = domain.NewInstant(t)
		}
		rec.Outcome = domain.Outcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all archived records.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM attempts")
	return err
}

// ExportJSON writes every record, oldest first, as a pretty JSON array.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	return writeExport(dest, records)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
