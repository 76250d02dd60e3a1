package commands

import (
	"io"
	"log/slog"
	"sort"
)

// Logger implements bcapi.Logger on top of log/slog.
type Logger struct {
	logger *slog.Logger
}

// NewLogger writes text records to w. Debug records are only written when verbose is set.
func NewLogger(w io.Writer, verbose bool) *Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return &Logger{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, attrs(fields)...)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, attrs(fields)...)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, attrs(fields)...)
}

func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, attrs(fields)...)
}

// attrs converts fields to slog attributes in key order.
func attrs(fields map[string]interface{}) []any {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	result := make([]any, 0, len(keys))
	for _, key := range keys {
		result = append(result, slog.Any(key, fields[key]))
	}

	return result
}
