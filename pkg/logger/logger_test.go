package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	l.WithField("component", "collector").
		WithFields(map[string]interface{}{"url": "https://example.com/sitemap.xml"}).
		WithError(errors.New("HTTP 500")).
		Warn("sitemap fetch failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}

	if entry["component"] != "collector" {
		t.Errorf("expected component field, got %v", entry["component"])
	}
	if entry["url"] != "https://example.com/sitemap.xml" {
		t.Errorf("expected url field, got %v", entry["url"])
	}
	if entry["error"] != "HTTP 500" {
		t.Errorf("expected error field, got %v", entry["error"])
	}
	if entry["level"] != "warn" {
		t.Errorf("expected warn level, got %v", entry["level"])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "error"}, &buf)

	l.Info("hidden")
	l.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at error level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("error message missing: %q", out)
	}

	// restore default for other tests in the package
	NewWithWriter(Config{Level: "info"}, &buf)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "debug",
		"warn":    "warn",
		"error":   "error",
		"unknown": "info",
		"":        "info",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestGetTimeFormat(t *testing.T) {
	tests := map[string]string{
		"":         time.RFC3339,
		"RFC3339":  time.RFC3339,
		"kitchen":  time.Kitchen,
		"15:04:05": "15:04:05",
	}
	for in, want := range tests {
		if got := getTimeFormat(in); got != want {
			t.Errorf("getTimeFormat(%q) = %q, want %q", in, got, want)
		}
	}
}
