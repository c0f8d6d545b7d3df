package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// TestInit_JSONFormat tests JSON output and default installation.
func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Init(&Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	logger.Info("cleanup run started", "run_id", "r-1", "workers", 4)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "cleanup run started" {
		t.Errorf("msg = %v, want cleanup run started", entry["msg"])
	}
	if entry["run_id"] != "r-1" {
		t.Errorf("run_id = %v, want r-1", entry["run_id"])
	}

	// Init installs the logger as the process default.
	buf.Reset()
	slog.Default().With("component", "janitor.test").Info("derived logger works")
	if !strings.Contains(buf.String(), "janitor.test") {
		t.Error("slog.Default() does not write to the configured writer")
	}
}

// TestInit_TextFormat tests text output.
func TestInit_TextFormat(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Init(&Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	logger.Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("output = %q, want text format", buf.String())
	}
}

// TestInit_LevelFiltering tests that messages below the level are dropped.
func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Init(&Config{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	logger.Info("filtered out")
	logger.Debug("also filtered")
	if buf.Len() != 0 {
		t.Errorf("output = %q, want info and debug filtered at warn level", buf.String())
	}

	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn message missing at warn level")
	}
}

// TestInit_InvalidConfig tests rejection of unknown levels and formats.
func TestInit_InvalidConfig(t *testing.T) {
	if _, err := Init(&Config{Level: "loud"}); err == nil {
		t.Error("Init() succeeded with unknown level, want error")
	}
	if _, err := Init(&Config{Level: "info", Format: "xml"}); err == nil {
		t.Error("Init() succeeded with unknown format, want error")
	}
}

// TestParseLevel tests level aliases.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if err != nil {
			t.Errorf("parseLevel(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := parseLevel("verbose"); err == nil {
		t.Error("parseLevel(verbose) succeeded, want error")
	}
}
