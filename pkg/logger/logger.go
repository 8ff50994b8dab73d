package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Level represents log level
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger provides structured logging
type Logger struct {
	base *log.Logger
}

// New creates a logger writing to stdout at the given level.
// Unknown levels fall back to INFO.
func New(level string) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level string) *Logger {
	return &Logger{
		base: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Level:           parseLevel(level),
		}),
	}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, string(LevelError))
}

// Log writes a structured log entry
func (l *Logger) Log(level Level, message string, fields ...Field) {
	l.base.Log(parseLevel(string(level)), message, keyvals(fields)...)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...Field) {
	l.base.Info(message, keyvals(fields)...)
}

// Warn logs a warning
func (l *Logger) Warn(message string, fields ...Field) {
	l.base.Warn(message, keyvals(fields)...)
}

// Error logs an error message
func (l *Logger) Error(message string, fields ...Field) {
	l.base.Error(message, keyvals(fields)...)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...Field) {
	l.base.Debug(message, keyvals(fields)...)
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{base: l.base.With(keyvals(fields)...)}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value string
}

// F creates a Field
func F(key, value string) Field {
	return Field{Key: key, Value: value}
}

func keyvals(fields []Field) []interface{} {
	kv := make([]interface{}, 0, 2*len(fields))
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

func parseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
