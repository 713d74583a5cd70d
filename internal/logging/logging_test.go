package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger("warn", &buf), "ui")

	logger.Info("hidden")
	logger.Warn("shown", "path", "a.mp4")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=ui") {
		t.Errorf("missing warn record or component: %s", out)
	}
}

func TestNewLogger_NilWriter(t *testing.T) {
	logger := NewLogger("debug", nil)
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nil writer should produce a discarding logger")
	}
}
