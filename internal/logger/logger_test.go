package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "json", &buf)

	log.Info("server started", slog.Int("port", 8080))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "server started" {
		t.Errorf("msg = %v, want %q", entry["msg"], "server started")
	}
	if entry["service"] != "promolang" {
		t.Errorf("service = %v, want promolang", entry["service"])
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "text", &buf)

	log.Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("output = %q, want text format", buf.String())
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", "json", &buf)

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
	log.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn not logged at warn level")
	}
}

func TestParseLevel_InvalidDefaultsToInfo(t *testing.T) {
	if got := parseLevel("super-critical"); got != slog.LevelInfo {
		t.Errorf("parseLevel() = %v, want info", got)
	}
}

func TestContext(t *testing.T) {
	expected := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx := WithContext(context.Background(), expected)

	if got := FromContext(ctx); got != expected {
		t.Error("FromContext() did not return the injected logger")
	}
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("FromContext() on empty context did not fall back to default")
	}
}
