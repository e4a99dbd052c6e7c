package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	InitLogger(level)
	fn()

	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:  "info log",
			level: "info",
			logFn: func() {
				Info("test info message")
			},
			contains: []string{"test info message"},
		},
		{
			name:  "debug log with debug level",
			level: "debug",
			logFn: func() {
				Debug("test debug message")
			},
			contains: []string{"test debug message", "level=DEBUG"},
		},
		{
			name:  "debug log with info level",
			level: "info",
			logFn: func() {
				Debug("test debug message")
			},
			excludes: []string{"test debug message"},
		},
		{
			name:  "error log",
			level: "error",
			logFn: func() {
				Error("test error message")
			},
			contains: []string{"test error message", "level=ERROR"},
		},
		{
			name:  "warn log with fields",
			level: "warn",
			logFn: func() {
				Warn("test warning", Fields{"task": "abc123", "attempt": 2})
			},
			contains: []string{"test warning", "level=WARN", "task=abc123", "attempt=2"},
		},
		{
			name:  "formatted info",
			level: "info",
			logFn: func() {
				Infof("swept %d records", 3)
			},
			contains: []string{"swept 3 records"},
		},
		{
			name:  "unknown level falls back to info",
			level: "chatty",
			logFn: func() {
				Info("still visible")
				Debug("hidden")
			},
			contains: []string{"still visible"},
			excludes: []string{"hidden"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, tt.logFn)
			for _, want := range tt.contains {
				assert.True(t, strings.Contains(output, want), "output %q should contain %q", output, want)
			}
			for _, not := range tt.excludes {
				assert.False(t, strings.Contains(output, not), "output %q should not contain %q", output, not)
			}
		})
	}
}

func TestGetLoggerInitializesDefault(t *testing.T) {
	UnsetTestOutput()
	assert.NotNil(t, GetLogger())
}
