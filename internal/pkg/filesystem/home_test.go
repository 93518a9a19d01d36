package filesystem

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := map[string]string{
		"":                "",
		"~":               home,
		"~/logs/a.json":   filepath.Join(home, "logs", "a.json"),
		"/var/tmp/../log": "/var/log",
		"relative/./dir":  "relative/dir",
	}
	for in, want := range tests {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
	if got := AppDir(); got != filepath.Join(home, ".raix") {
		t.Errorf("AppDir() = %q", got)
	}
}
