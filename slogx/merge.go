package slogx

import (
	"context"
	"errors"
	"log/slog"
)

var _ slog.Handler = (*handlerJoiner)(nil)

type handlerJoiner struct {
	handlers []slog.Handler
}

func (h *handlerJoiner) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *handlerJoiner) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		errs = append(errs, handler.Handle(ctx, record.Clone()))
	}
	return errors.Join(errs...)
}

func (h *handlerJoiner) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := &handlerJoiner{handlers: make([]slog.Handler, len(h.handlers))}
	for i, handler := range h.handlers {
		cp.handlers[i] = handler.WithAttrs(attrs)
	}
	return cp
}

func (h *handlerJoiner) WithGroup(name string) slog.Handler {
	cp := &handlerJoiner{handlers: make([]slog.Handler, len(h.handlers))}
	for i, handler := range h.handlers {
		cp.handlers[i] = handler.WithGroup(name)
	}
	return cp
}

// MergeHandlers will merge many [slog.Handler] into one for a single interface for all of them.
// Nil handlers are skipped, so optional sinks may be passed directly.
// If only one handler remains it's returned as-is, and if none remain a discarding handler is returned.
func MergeHandlers(handlers ...slog.Handler) slog.Handler {
	var nonNil []slog.Handler
	for _, handler := range handlers {
		if handler != nil {
			nonNil = append(nonNil, handler)
		}
	}
	switch len(nonNil) {
	case 0:
		return slog.DiscardHandler
	case 1:
		return nonNil[0]
	default:
		return &handlerJoiner{handlers: nonNil}
	}
}
