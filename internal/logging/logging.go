// Package logging provides a leveled structured logger backed by log/slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelError + 4
	}
}

// ParseLevel parses a log level string. Unknown values map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects the line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses a format string. Unknown values map to text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Logger is a leveled logger. Messages take slog-style key/value pairs.
type Logger struct {
	mu     sync.Mutex
	level  *slog.LevelVar
	format Format
	output io.Writer
	attrs  []any
	sl     *slog.Logger
}

// New creates a text logger writing to stderr.
func New(level Level) *Logger {
	return NewWithFormat(level, FormatText)
}

// NewWithFormat creates a logger writing to stderr in the given format.
func NewWithFormat(level Level, format Format) *Logger {
	l := &Logger{
		level:  new(slog.LevelVar),
		format: format,
		output: os.Stderr,
	}
	l.level.Set(level.slogLevel())
	l.rebuild()
	return l
}

// rebuild recreates the slog handler. Callers hold l.mu or own l exclusively.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: l.level}
	var h slog.Handler
	if l.format == FormatJSON {
		h = slog.NewJSONHandler(l.output, opts)
	} else {
		h = slog.NewTextHandler(l.output, opts)
	}
	l.sl = slog.New(h).With(l.attrs...)
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// With returns a logger that adds args to every record. The child shares
// the parent's level.
func (l *Logger) With(args ...any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	child := &Logger{
		level:  l.level,
		format: l.format,
		output: l.output,
		attrs:  append(append([]any{}, l.attrs...), args...),
	}
	child.rebuild()
	return child
}

// Slog exposes the underlying slog logger.
func (l *Logger) Slog() *slog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sl
}

func (l *Logger) log(level Level, msg string, args ...any) {
	l.Slog().Log(context.Background(), level.slogLevel(), msg, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	l := NewWithFormat(LevelError+1, FormatText) // Higher than any level
	l.SetOutput(io.Discard)
	return l
}

type ctxKey struct{}

// NewRequestID returns a fresh request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

// ContextWithRequestID stores a request ID in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
