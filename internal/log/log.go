// Package log configures the process-wide slog logger and lets callers
// attach attributes to a context that every log record inherits.
package log

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey struct{}

// New returns a text logger writing to stderr at Info, or Debug when verbose.
// Attributes stored with ContextAttrs are added to each record.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(NewContextHandler(base))
}

// ContextAttrs returns a copy of ctx carrying attrs in addition to any
// attributes already stored on it.
func ContextAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

// ContextHandler wraps a slog.Handler and adds context attributes to every
// record it handles.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler wraps base.
func NewContextHandler(base slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: base}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
