package logging

import (
	"context"
	"log/slog"
)

type fieldsKey struct{}

// Fields are per-request values attached to every record logged with the
// request context.
type Fields struct {
	RequestID string
	TenantID  string
	UserID    string
}

func WithFields(ctx context.Context, f Fields) context.Context {
	return context.WithValue(ctx, fieldsKey{}, f)
}

func FieldsFrom(ctx context.Context) (Fields, bool) {
	if ctx == nil {
		return Fields{}, false
	}
	f, ok := ctx.Value(fieldsKey{}).(Fields)
	return f, ok
}

// ContextHandler copies Fields from the context into each record, unless the
// call site already set the same key.
type ContextHandler struct {
	next slog.Handler
}

func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	f, ok := FieldsFrom(ctx)
	if !ok {
		return h.next.Handle(ctx, record)
	}

	present := make(map[string]bool, 3)
	record.Attrs(func(a slog.Attr) bool {
		present[a.Key] = true
		return true
	})

	add := func(key, value string) {
		if value != "" && !present[key] {
			record.AddAttrs(slog.String(key, value))
		}
	}
	add("request_id", f.RequestID)
	add("tenant_id", f.TenantID)
	add("user_id", f.UserID)

	return h.next.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
