package logstore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/raix/internal/domain"
)

var fixedNow = time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)

func sampleRecord(prompt string, retries int) domain.AttemptRecord {
	return domain.AttemptRecord{
		Prompt:    prompt,
		Code:      "print('<ok>')",
		Output:    "<ok>",
		Timestamp: domain.NewInstant(fixedNow),
		Retries:   retries,
	}
}

func TestMemoryStorePreservesOrder(t *testing.T) {
	store := NewMemoryStore()
	store.Append(sampleRecord("first", 1))
	store.Append(sampleRecord("second", 3))

	got := store.Records()
	want := []domain.AttemptRecord{sampleRecord("first", 1), sampleRecord("second", 3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Records() mismatch (-want +got):\n%s", diff)
	}

	got[0].Prompt = "mutated"
	if store.Records()[0].Prompt != "first" {
		t.Fatal("Records() must return a copy")
	}
}

func TestMemoryStoreConcurrentReaders(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Records()
			_ = store.Len()
		}()
	}
	for i := 0; i < 10; i++ {
		store.Append(sampleRecord("p", 1))
	}
	wg.Wait()
	if store.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", store.Len())
	}
}

func TestEncodeMatchesPrettyPrintedArray(t *testing.T) {
	data, err := Encode([]domain.AttemptRecord{sampleRecord("a & b", 2)})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want := `[
  {
    "prompt": "a & b",
    "code": "print('<ok>')",
    "output": "<ok>",
    "timestamp": "2026-10-19T23:59:00.000Z",
    "retries": 2
  }
]`
	if string(data) != want {
		t.Fatalf("Encode mismatch:\n got %s\nwant %s", data, want)
	}
}

func TestEncodeEmptyLog(t *testing.T) {
	for _, v := range []interface{}{[]domain.AttemptRecord(nil), []domain.AttemptRecord{}} {
		data, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode error: %v", err)
		}
		if string(data) != "[]" {
			t.Fatalf("Encode(empty) = %q, want []", data)
		}
	}
}

func TestFileNameUsesUTCDate(t *testing.T) {
	local := time.Date(2026, 10, 20, 6, 0, 0, 0, time.FixedZone("UTC+8", 8*60*60))
	if got := FileName("", local); got != "recursive-ai-logs-2026-10-19.json" {
		t.Fatalf("FileName() = %q", got)
	}
	if got := FileName("session-", fixedNow); got != "session-2026-10-19.json" {
		t.Fatalf("FileName() with prefix = %q", got)
	}
}

func TestExporterWritesDatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	store := NewMemoryStore()
	store.Append(sampleRecord("Write a function to check prime number", 1))

	exporter := NewExporter(store, dir, "")
	exporter.Now = func() time.Time { return fixedNow }

	result, err := exporter.Export()
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	wantPath := filepath.Join(dir, "recursive-ai-logs-2026-10-19.json")
	if result.Path != wantPath || result.Count != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if len(data) != result.Bytes {
		t.Fatalf("Bytes = %d, file has %d", result.Bytes, len(data))
	}

	var decoded []domain.AttemptRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported file is not JSON: %v", err)
	}
	if diff := cmp.Diff(store.Records(), decoded); diff != "" {
		t.Fatalf("decoded export mismatch (-want +got):\n%s", diff)
	}
}

func TestExportIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewMemoryStore()
	store.Append(sampleRecord("x", 3))
	exporter := NewExporter(store, dir, "")
	exporter.Now = func() time.Time { return fixedNow }

	first, err := exporter.Export()
	if err != nil {
		t.Fatalf("first Export error: %v", err)
	}
	firstData, _ := os.ReadFile(first.Path)

	second, err := exporter.Export()
	if err != nil {
		t.Fatalf("second Export error: %v", err)
	}
	secondData, _ := os.ReadFile(second.Path)

	if !bytes.Equal(firstData, secondData) {
		t.Fatal("exports without an intervening append must be byte identical")
	}
	if store.Len() != 1 {
		t.Fatalf("export changed the log: Len() = %d", store.Len())
	}
}

func TestWriteToStreamsSameBytes(t *testing.T) {
	store := NewMemoryStore()
	store.Append(sampleRecord("stream", 1))
	exporter := NewExporter(store, t.TempDir(), "")

	var buf bytes.Buffer
	n, err := exporter.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo error: %v", err)
	}
	want, _ := exporter.Bytes()
	if int(n) != len(want) || !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("WriteTo wrote %d bytes, want %d", n, len(want))
	}
}
