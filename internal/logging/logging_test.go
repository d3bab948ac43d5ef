package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "forge.log")

	log, err := New(Options{Level: "debug", Format: "json", Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("diagram mounted", zap.String("surface", "jxgbox-1"))
	Sync(log)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"diagram mounted"`) || !strings.Contains(string(data), "jxgbox-1") {
		t.Errorf("log = %s", data)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forge.log")

	log, err := New(Options{Level: "warn", Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	Sync(log)

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("log = %s", data)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := DefaultPath(); got != "/tmp/state/olympiad-forge/forge.log" {
		t.Errorf("DefaultPath = %q", got)
	}
}
