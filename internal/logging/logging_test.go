package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTraceWritesJSONLinesWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trace.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
	})

	Trace("ignored", nil)
	SetTraceEnabled(true)
	Trace("search.issue", map[string]interface{}{"query": "ab"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trace log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected a single trace entry, got %d: %q", len(lines), data)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.Event != "search.issue" || entry.Payload["query"] != "ab" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestErrorAppendsToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	Configure(path)
	t.Cleanup(func() { Configure("") })

	Error(nil)
	Error(errors.New("backend unreachable"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error log: %v", err)
	}
	if !strings.Contains(string(data), "backend unreachable") {
		t.Fatalf("expected error text in log, got %q", data)
	}
}

func TestConfigureEmptyFallsBackToDefault(t *testing.T) {
	Configure("   ")
	if got := Path(); got != defaultLogFile {
		t.Fatalf("expected default path, got %q", got)
	}
}

func TestErrorInPrefixesScope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	Configure(path)
	t.Cleanup(func() { Configure("") })

	ErrorIn("search", errors.New("connection refused"))
	ErrorIn("search", nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry, got %q", data)
	}
	if !strings.Contains(lines[0], "[search] connection refused") {
		t.Fatalf("expected scoped entry, got %q", lines[0])
	}
}
