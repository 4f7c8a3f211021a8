package logging

import (
	"context"
	"log/slog"
	"os"
)

// SetupLogger builds a logger writing text to the console (stdout unless
// opts.Console is set) and, when opts.Dir is set, JSON to a rotating file.
// If the file cannot be opened the logger falls back to the console and the
// returned writer is nil.
func SetupLogger(opts Options) (*slog.Logger, *RotatingLogger) {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	out := opts.Console
	if out == nil {
		out = os.Stdout
	}
	console := slog.NewTextHandler(out, handlerOpts)

	if opts.Dir == "" {
		return slog.New(console), nil
	}

	retention := opts.RetentionWeeks
	if retention <= 0 {
		retention = 4
	}

	writer := NewRotatingLogger(opts.Dir, retention, opts.MaxFileSize)
	if err := writer.Open(); err != nil {
		logger := slog.New(console)
		logger.Error("Failed to initialize rotating logger, logging to console only", "error", err)
		return logger, nil
	}

	file := slog.NewJSONHandler(writer, handlerOpts)
	return slog.New(&multiHandler{handlers: []slog.Handler{console, file}}), writer
}

// multiHandler fans a record out to several handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
