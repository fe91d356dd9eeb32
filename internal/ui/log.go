package ui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogOptions returns handler options for level. Timestamps are dropped and
// source paths trimmed to the file name.
func LogOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.SourceKey:
				if src, ok := a.Value.Any().(*slog.Source); ok {
					if i := strings.LastIndexByte(src.File, '/'); i >= 0 {
						src.File = src.File[i+1:]
					}
				}
			}
			return a
		},
	}
}

// componentHandler prefixes every message with "[component] ".
type componentHandler struct {
	slog.Handler
	component string
}

func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.component != "" {
		r.Message = "[" + h.component + "] " + r.Message
	}
	return h.Handler.Handle(ctx, r)
}

func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &componentHandler{Handler: h.Handler.WithAttrs(attrs), component: h.component}
}

func (h *componentHandler) WithGroup(name string) slog.Handler {
	return &componentHandler{Handler: h.Handler.WithGroup(name), component: h.component}
}

// NewLogger builds a text logger writing to w. Level is warn unless verbose
// is set or GRIND_DEBUG is truthy.
func NewLogger(w io.Writer, component string, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose || debugEnv() {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, LogOptions(level))
	return slog.New(&componentHandler{Handler: h, component: component})
}

// SetupLogging installs a stderr logger as the slog default.
func SetupLogging(verbose bool) *slog.Logger {
	l := NewLogger(os.Stderr, "grind", verbose)
	slog.SetDefault(l)
	return l
}

func debugEnv() bool {
	switch strings.ToLower(os.Getenv("GRIND_DEBUG")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
