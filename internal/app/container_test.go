package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildContainerWiresDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeConfig(t, cfgPath, `config_format_version: "1"
endpoint:
  base_url: http://127.0.0.1:9
retry:
  max_attempts: 3
export:
  dir: `+dir+`
history:
  enabled: false
`)

	c, err := BuildContainer(context.Background(), Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("BuildContainer error: %v", err)
	}
	defer c.Close()

	if err := c.Ready(); err != nil {
		t.Fatalf("Ready error: %v", err)
	}
	if c.HistoryStore != nil {
		t.Fatalf("history should be disabled, got %T", c.HistoryStore)
	}
	if c.Generator.MaxAttempts != 3 {
		t.Fatalf("MaxAttempts = %d", c.Generator.MaxAttempts)
	}
	if c.Generator.SessionID == "" || c.Generator.SessionID != c.SessionID {
		t.Fatalf("session id not propagated: %q vs %q", c.Generator.SessionID, c.SessionID)
	}
	if got := c.Backend.Endpoint(); got != "http://127.0.0.1:9/execute" {
		t.Fatalf("Endpoint = %q", got)
	}
	if c.Exporter.Dir != dir {
		t.Fatalf("Exporter.Dir = %q", c.Exporter.Dir)
	}
}

func TestBuildContainerDefersInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeConfig(t, cfgPath, `retry:
  max_attempts: 99
history:
  enabled: false
`)

	c, err := BuildContainer(context.Background(), Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("BuildContainer error: %v", err)
	}
	defer c.Close()

	if err := c.Ready(); err == nil {
		t.Fatal("expected Ready to report the invalid retry cap")
	}
	if c.DoctorService == nil {
		t.Fatal("doctor should still be wired")
	}
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}
