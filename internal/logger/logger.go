// Package logger is the process-wide structured logger. Output is one JSON
// object per line on stdout.
package logger

import (
	"context"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger is the minimal logging surface the rest of the code depends on.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields are structured key/value pairs attached to a log line.
type Fields map[string]any

// Log is the global logger. It logs at info until Init is called.
var Log Logger = New("info")

// Init replaces the global logger with one at the given level. Unknown or
// empty levels fall back to info.
func Init(level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	Log = New(level)
}

// New creates a gookit/slog logger that emits JSON lines at level and above.
func New(level string) Logger {
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "time",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "msg",
		}
		f.TimeFormat = "2006-01-02T15:04:05.000Z07:00"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h)
}

func withFields(fields Fields) *slog.Record {
	if lg, ok := Log.(*slog.Logger); ok {
		return lg.WithFields(slog.M(fields))
	}
	return nil
}

// InfoWithFields logs msg at info with structured fields.
func InfoWithFields(msg string, fields Fields) {
	if r := withFields(fields); r != nil {
		r.Info(msg)
		return
	}
	Log.Info(msg)
}

// DebugWithFields logs msg at debug with structured fields.
func DebugWithFields(msg string, fields Fields) {
	if r := withFields(fields); r != nil {
		r.Debug(msg)
		return
	}
	Log.Debug(msg)
}

// WarnWithFields logs msg at warn with structured fields.
func WarnWithFields(msg string, fields Fields) {
	if r := withFields(fields); r != nil {
		r.Warn(msg)
		return
	}
	Log.Warn(msg)
}

// ErrorWithFields logs msg at error with structured fields.
func ErrorWithFields(msg string, fields Fields) {
	if r := withFields(fields); r != nil {
		r.Error(msg)
		return
	}
	Log.Error(msg)
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the inbound request id so
// outbound calls and log lines can be correlated.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
