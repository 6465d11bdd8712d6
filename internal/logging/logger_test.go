package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	component := NewComponentLogger(logger, "cache")
	component.Info("stored entry", String("podcast", "Acme Cast"), Int("bytes", 42))

	line := buf.String()
	if !strings.Contains(line, "INFO cache: stored entry") {
		t.Errorf("unexpected line: %q", line)
	}
	if !strings.Contains(line, `podcast="Acme Cast"`) {
		t.Errorf("expected quoted attr, got %q", line)
	}
	if !strings.Contains(line, "bytes=42") {
		t.Errorf("expected int attr, got %q", line)
	}
}

func TestConsoleHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("invisible")
	logger.Warn("visible")

	if strings.Contains(buf.String(), "invisible") {
		t.Error("info record should have been filtered")
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Error("warn record missing")
	}
}

func TestJSONHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Error("boom", Error(errors.New("kaput")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid json: %v (%q)", err, buf.String())
	}
	if record["msg"] != "boom" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "error" {
		t.Errorf("level = %v", record["level"])
	}
	if record["error"] != "kaput" {
		t.Errorf("error = %v", record["error"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("into the void")
	// NewComponentLogger with nil base must not panic either.
	NewComponentLogger(nil, "test").Error("still fine")
}
