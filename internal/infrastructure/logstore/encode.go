package logstore

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"

	"github.com/doeshing/raix/internal/domain"
)

// Encode renders v as a two-space indented JSON document without HTML
// escaping or a trailing newline. Nil slices encode as [].
func Encode(v interface{}) ([]byte, error) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// FileName returns "<prefix><YYYY-MM-DD>.json" using the UTC date of now.
func FileName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = domain.DefaultExportPrefix
	}
	return prefix + now.UTC().Format(domain.ExportDateFormat) + ".json"
}
