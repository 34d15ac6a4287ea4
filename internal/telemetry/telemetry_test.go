package telemetry

import (
	"bytes"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistryCountersAndGauges(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Add("editor_commands_total", 2)
	reg.Add("editor_commands_total", 3)
	reg.Store("editor_history_depth", 7)
	reg.Store("editor_history_depth", 4)

	if got := testutil.ToFloat64(reg.counters["editor_commands_total"]); got != 5 {
		t.Fatalf("expected counter to accumulate to 5, got %v", got)
	}
	if got := testutil.ToFloat64(reg.gauges["editor_history_depth"]); got != 4 {
		t.Fatalf("expected gauge to hold last value 4, got %v", got)
	}
}

func TestRegistryKeepsFirstKindForKey(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(WrapLogger(log.New(&buf, "", 0)))
	reg.Add("editor_mixed", 1)
	reg.Store("editor_mixed", 9)
	if _, ok := reg.gauges["editor_mixed"]; ok {
		t.Fatalf("expected gauge registration to be refused for a counter key")
	}
	if got := testutil.ToFloat64(reg.counters["editor_mixed"]); got != 1 {
		t.Fatalf("expected counter to be unaffected, got %v", got)
	}
}

func TestRegistryLogsInvalidNames(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(WrapLogger(log.New(&buf, "", 0)))
	reg.Add("", 1)
	reg.Add("", 1)
	if strings.Count(buf.String(), "register counter") != 1 {
		t.Fatalf("expected one registration failure to be logged, got %q", buf.String())
	}
}

func TestRegistryHandlerServesExposition(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Add("editor_log_events_total", 3)

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "editor_log_events_total 3") {
		t.Fatalf("expected counter in exposition, got %s", body)
	}
}

func TestLoggerAdapters(t *testing.T) {
	var buf bytes.Buffer
	std := log.New(&buf, "", 0)
	logger := WrapLogger(std)
	logger.Printf("listening on %s", ":8080")
	if strings.TrimSpace(buf.String()) != "listening on :8080" {
		t.Fatalf("unexpected log output %q", buf.String())
	}
	if StandardLogger(logger) != std {
		t.Fatalf("expected wrapped logger to be exposed")
	}
	if StandardLogger(LoggerFunc(func(string, ...any) {})) != nil {
		t.Fatalf("expected LoggerFunc to have no standard logger")
	}
	var nilFunc LoggerFunc
	nilFunc.Printf("ignored")
}
