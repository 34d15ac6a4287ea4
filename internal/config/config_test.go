package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"scene-editor/logging"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	settings, err := Load("")
	if err != nil {
		t.Fatalf("expected defaults to load, got %v", err)
	}
	if !reflect.DeepEqual(settings, Default()) {
		t.Fatalf("expected defaults, got %+v", settings)
	}
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := writeSettings(t, `
addr: ":9000"
history_limit: 64
logging:
  sinks: [console, sqlite]
  level: debug
  sqlite_path: /tmp/journal.db
navmesh:
  vertex_snap: 0.25
`)
	t.Setenv("EDITOR_HISTORY_LIMIT", "32")
	t.Setenv("EDITOR_LOG_LEVEL", "warn")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("expected settings to load, got %v", err)
	}
	if settings.Addr != ":9000" {
		t.Fatalf("expected addr from file, got %q", settings.Addr)
	}
	if settings.HistoryLimit != 32 || settings.Logging.Level != "warn" {
		t.Fatalf("expected environment to override file, got %+v", settings)
	}
	if settings.Navmesh.VertexSnap != 0.25 {
		t.Fatalf("expected vertex snap from file, got %v", settings.Navmesh.VertexSnap)
	}
	if !reflect.DeepEqual(settings.Logging.Sinks, []string{"console", "sqlite"}) {
		t.Fatalf("unexpected sinks %v", settings.Logging.Sinks)
	}
	if settings.Logging.SQLiteBatch != 1 {
		t.Fatalf("expected unspecified keys to keep defaults, got %d", settings.Logging.SQLiteBatch)
	}
}

func TestLoadSinksFromEnvironment(t *testing.T) {
	t.Setenv("EDITOR_LOG_SINKS", "console,json")
	t.Setenv("EDITOR_LOG_JSON_PATH", "events.jsonl")
	t.Setenv("EDITOR_LOG_JSON_FLUSH", "500ms")

	settings, err := Load("")
	if err != nil {
		t.Fatalf("expected settings to load, got %v", err)
	}
	cfg, err := settings.LogConfig()
	if err != nil {
		t.Fatalf("expected log config, got %v", err)
	}
	if !cfg.HasSink("json") || cfg.JSON.FilePath != "events.jsonl" || cfg.JSON.FlushInterval != 500*time.Millisecond {
		t.Fatalf("unexpected log config %+v", cfg)
	}
	if cfg.MinimumSeverity != logging.SeverityInfo {
		t.Fatalf("expected default severity, got %v", cfg.MinimumSeverity)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	path := writeSettings(t, `
addr: ""
history_limit: 0
logging:
  sinks: [console, kafka, json]
  level: loud
navmesh:
  vertex_snap: -1
`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected invalid settings to fail")
	}
	for _, want := range []string{"addr", "history_limit", "vertex_snap", "loud", "kafka", "json_path"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error %q", want, err)
		}
	}
}

func TestLoadReportsFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "reading settings file") {
		t.Fatalf("expected read error, got %v", err)
	}
	path := writeSettings(t, "addr: [unterminated")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parsing settings file") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadReportsEnvironmentErrors(t *testing.T) {
	t.Setenv("EDITOR_HISTORY_LIMIT", "lots")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("expected env parse error, got %v", err)
	}
}
