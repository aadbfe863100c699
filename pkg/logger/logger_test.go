package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Config{Level: "debug", Format: "json"})

	l.WithField("component", "test").WithError(errors.New("boom")).Warn("something happened")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "test" {
		t.Errorf("Expected component field 'test', got %v", entry["component"])
	}
	if entry["error"] != "boom" {
		t.Errorf("Expected error field 'boom', got %v", entry["error"])
	}
	if entry["level"] != "warn" {
		t.Errorf("Expected level 'warn', got %v", entry["level"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Config{Level: "warn", Format: "json"})

	l.Info("hidden")
	l.Debug("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("Expected info/debug to be filtered at warn level, got %q", buf.String())
	}

	l.Error("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("Expected error message in output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"INFO", "info"},
		{"warning", "warn"},
		{"error", "error"},
		{"", "info"},
		{"nonsense", "info"},
	}

	for _, test := range tests {
		if got := parseLevel(test.input).String(); got != test.expected {
			t.Errorf("parseLevel(%q) = %s, expected %s", test.input, got, test.expected)
		}
	}
}

func TestProgressReporter_Counts(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Config{Level: "info", Format: "json"})
	pr := NewProgressReporter(l, 3, "Analyzing keywords")

	pr.Step("a", false)
	pr.Step("b", true)

	done, failed, total := pr.Progress()
	if done != 2 || failed != 1 || total != 3 {
		t.Errorf("Expected 2/1/3, got %d/%d/%d", done, failed, total)
	}
	if !strings.Contains(buf.String(), "Analyzing keywords: 2/3") {
		t.Errorf("Expected progress message in output, got %q", buf.String())
	}
}
