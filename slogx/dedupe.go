package slogx

import (
	"context"
	"log/slog"
	"slices"
)

var _ slog.Handler = (*DedupeHandler)(nil)

// DedupeHandler keeps only the latest value for each attribute key, so loggers derived many times over (like a chain of child event nodes each adding a "node" attribute) don't repeat keys.
//
// Groups are flattened into dotted key prefixes, so "group.key" and "key" are distinct.
type DedupeHandler struct {
	group string
	attrs []slog.Attr
	impl  slog.Handler
}

func NewDedupeHandler(impl slog.Handler) slog.Handler {
	if impl == nil {
		panic("nil implementing handler")
	}
	return &DedupeHandler{
		impl: impl,
	}
}

// Dedupe returns a logger backed by a [DedupeHandler].
// A nil logger produces a discarding logger, and a logger that already deduplicates is returned as-is.
func Dedupe(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	if _, ok := logger.Handler().(*DedupeHandler); ok {
		return logger
	}
	return slog.New(NewDedupeHandler(logger.Handler()))
}

func (s *DedupeHandler) key(key string) string {
	if len(s.group) == 0 {
		return key
	}
	return s.group + "." + key
}

func (s *DedupeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.impl.Enabled(ctx, level)
}

// Handle merges the record's attributes into the accumulated ones before passing a record with no attributes of its own to the wrapped handler.
func (s *DedupeHandler) Handle(ctx context.Context, record slog.Record) error {
	h := s
	if record.NumAttrs() > 0 {
		attrs := make([]slog.Attr, 0, record.NumAttrs())
		record.Attrs(func(attr slog.Attr) bool {
			attrs = append(attrs, attr)
			return true
		})
		h = s.merge(attrs)
		record = slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	}
	return h.impl.WithAttrs(h.attrs).Handle(ctx, record)
}

func (s *DedupeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	return s.merge(attrs)
}

func (s *DedupeHandler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return s
	}
	return &DedupeHandler{
		group: s.key(name),
		attrs: s.attrs,
		impl:  s.impl,
	}
}

// merge never modifies the attributes of s, since they may be shared with other derived handlers.
func (s *DedupeHandler) merge(attrs []slog.Attr) *DedupeHandler {
	merged := slices.Clone(s.attrs)
	for _, attr := range attrs {
		attr.Key = s.key(attr.Key)
		idx := slices.IndexFunc(merged, func(existing slog.Attr) bool {
			return existing.Key == attr.Key
		})
		if idx >= 0 {
			merged[idx] = attr
			continue
		}
		merged = append(merged, attr)
	}
	return &DedupeHandler{
		group: s.group,
		attrs: merged,
		impl:  s.impl,
	}
}
