package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/felixgeelhaar/zkbench/internal/errors"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  level,
		Format: format,
		Output: NewOutput(&buf),
	})
	return logger, &buf
}

func TestLoggerLevels(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Errorf("debug should be filtered at warn level")
	}
	if strings.Contains(out, "info message") {
		t.Errorf("info should be filtered at warn level")
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("warn should be emitted")
	}
	if !strings.Contains(out, "error message") {
		t.Errorf("error should be emitted")
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.Info("benchmark complete", "circuit", "poseidon")

	out := buf.String()
	if !strings.Contains(out, `"msg":"benchmark complete"`) {
		t.Errorf("expected JSON msg field, got %q", out)
	}
	if !strings.Contains(out, `"circuit":"poseidon"`) {
		t.Errorf("expected JSON attribute, got %q", out)
	}
}

func TestWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	err := errors.New(errors.ErrCodeExecTimeout, "bb prove timed out").
		WithSuggestion("Increase the limit with --timeout")
	logger.WithError(err).Error("workflow failed")

	out := buf.String()
	if !strings.Contains(out, "EXEC-002") {
		t.Errorf("expected error_code in %q", out)
	}
	if !strings.Contains(out, "bb prove timed out") {
		t.Errorf("expected error message in %q", out)
	}
}

func TestWithErrorNil(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.WithError(nil).Info("ok")

	if !strings.Contains(buf.String(), "ok") {
		t.Errorf("expected log line with nil error")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
