package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_WithPrefixesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithOutput(LevelInfo, &buf)

	l.With("request_id", "abc").With("tool", "call_openai").Info("done in %dms", 12)

	line := buf.String()
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "request_id=abc tool=call_openai done in 12ms")
	assert.Contains(t, line, "logger_fields_test.go")
}

func TestLogger_LevelFiltersAndIsShared(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithOutput(LevelWarn, &buf)
	child := l.With("k", "v")

	child.Info("hidden")
	child.Warn("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	l.SetLevel(LevelDebug)
	child.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
	assert.Equal(t, LevelDebug, child.Level())
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "LEVEL(42)", LogLevel(42).String())
}
