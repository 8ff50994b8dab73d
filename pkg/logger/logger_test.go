package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		write     func(l *Logger)
		wantEntry bool
	}{
		{name: "info at info", level: "INFO", write: func(l *Logger) { l.Info("round started") }, wantEntry: true},
		{name: "debug at info", level: "INFO", write: func(l *Logger) { l.Debug("round started") }, wantEntry: false},
		{name: "debug at debug", level: "debug", write: func(l *Logger) { l.Debug("round started") }, wantEntry: true},
		{name: "warn at error", level: "ERROR", write: func(l *Logger) { l.Warn("round started") }, wantEntry: false},
		{name: "unknown level means info", level: "loud", write: func(l *Logger) { l.Info("round started") }, wantEntry: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(NewWithWriter(&buf, tt.level))
			if got := strings.Contains(buf.String(), "round started"); got != tt.wantEntry {
				t.Errorf("entry written = %v, want %v (output %q)", got, tt.wantEntry, buf.String())
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "INFO").With(F("round_id", "r-1"))
	l.Error("failed to save result", F("error", "timeout"))

	out := buf.String()
	for _, want := range []string{"failed to save result", "round_id=r-1", "error=timeout"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
