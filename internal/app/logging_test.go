package app

import (
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf strings.Builder
	log := NewLogger(LogLevelWarn, &buf)

	log.Debug("quiet")
	log.Info("quiet")
	log.Warn("loud")
	log.Error("louder")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("output contains filtered messages: %q", out)
	}
	if !strings.Contains(out, "[WARN] typewright: loud") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] typewright: louder") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestLoggerFields(t *testing.T) {
	var buf strings.Builder
	log := NewLogger(LogLevelInfo, &buf).WithComponent("document").WithField("path", "a.txt")

	log.Info("opened")

	out := buf.String()
	if !strings.Contains(out, "component=document") {
		t.Errorf("missing component field: %q", out)
	}
	if !strings.Contains(out, "path=a.txt") {
		t.Errorf("missing path field: %q", out)
	}
}

func TestLoggerFormatArgs(t *testing.T) {
	var buf strings.Builder
	log := NewLogger(LogLevelInfo, &buf)

	log.Info("opened %s (%d bytes)", "a.txt", 42)
	if !strings.Contains(buf.String(), "opened a.txt (42 bytes)") {
		t.Errorf("formatting failed: %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"nonsense", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNullLoggerStaysSilent(t *testing.T) {
	// Must not panic despite having no output writer.
	NullLogger.Error("nothing to see")
}
