package geoknn

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is a slog.Logger that knows the events of a graph build. Field
// names are shared by every log line so that runs can be grepped uniformly.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps handler. A nil handler logs text at info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(os.Stderr, slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger logs one JSON object per line to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger logs logfmt-style lines to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// With returns a Logger that adds args to every line.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// LogBuild reports the outcome of a Build or BuildStream call.
func (l *Logger) LogBuild(ctx context.Context, nodes, k, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "graph build failed", "nodes", nodes, "k", k, "error", err)
		return
	}
	l.InfoContext(ctx, "graph build completed", "nodes", nodes, "k", k, "edges", edges)
}

// LogProgress reports processed source nodes.
func (l *Logger) LogProgress(ctx context.Context, done, total int) {
	l.InfoContext(ctx, "graph build progress", "done", done, "total", total)
}

// LogFilter reports how many input rows survived the record filter.
func (l *Logger) LogFilter(ctx context.Context, rows, kept int) {
	l.InfoContext(ctx, "records filtered", "rows", rows, "kept", kept, "dropped", rows-kept)
}

// LogCommit reports an edge list that became visible at location.
func (l *Logger) LogCommit(ctx context.Context, location string, edges int) {
	l.InfoContext(ctx, "edge list committed", "location", location, "edges", edges)
}
