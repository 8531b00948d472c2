package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not JSON: %v: %s", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestNew_RuntimeLevelChange(t *testing.T) {
	var buf bytes.Buffer
	logger, levelVar, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("Debug record emitted at info level: %s", buf.String())
	}

	levelVar.Set(slog.LevelDebug)
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("Debug record missing after lowering the level")
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	Component(logger, "listener").Info("bound")

	if !strings.Contains(buf.String(), `"component":"listener"`) {
		t.Errorf("Missing component attribute: %s", buf.String())
	}
}
