package domain

import (
	"io"
	"log/slog"
	"os"
	"sort"
)

// StructuredLogger writes one JSON object per log entry. It goes to
// stderr by default because stdout belongs to the stdio transport.
type StructuredLogger struct {
	logger *slog.Logger
}

// NewStructuredLogger creates a logger writing to stderr at info level.
func NewStructuredLogger() *StructuredLogger {
	return NewStructuredLoggerWithWriter(os.Stderr, "info")
}

// NewStructuredLoggerWithWriter creates a logger writing to w at the given
// level ("debug", "info", "warn" or "error").
func NewStructuredLoggerWithWriter(w io.Writer, level string) *StructuredLogger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &StructuredLogger{logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDebug logs a debug message with context.
func (l *StructuredLogger) LogDebug(message string, context map[string]interface{}) {
	l.logger.Debug(message, attrs(context)...)
}

// LogInfo logs an informational message with context.
func (l *StructuredLogger) LogInfo(message string, context map[string]interface{}) {
	l.logger.Info(message, attrs(context)...)
}

// LogWarn logs a warning with context.
func (l *StructuredLogger) LogWarn(message string, context map[string]interface{}) {
	l.logger.Warn(message, attrs(context)...)
}

// LogError logs an error message with context.
func (l *StructuredLogger) LogError(message string, err error, context map[string]interface{}) {
	args := attrs(context)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	l.logger.Error(message, args...)
}

// attrs converts a context map to slog attributes in key order so log
// lines are stable.
func attrs(context map[string]interface{}) []any {
	if len(context) == 0 {
		return nil
	}
	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, context[k]))
	}
	return out
}
