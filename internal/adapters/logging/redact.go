package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const redactedMarker = "[REDACTED]"

// Redactor is a slog.Handler that scrubs registered secret values from the
// message and from string, error and stringer attributes.
type Redactor struct {
	inner  slog.Handler
	shared *secretSet
}

type secretSet struct {
	mu     sync.RWMutex
	values []string
}

func NewRedactor(inner slog.Handler) *Redactor {
	return &Redactor{inner: inner, shared: &secretSet{}}
}

func (r *Redactor) AddSecret(value string) {
	if strings.TrimSpace(value) == "" {
		return
	}

	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()

	for _, existing := range r.shared.values {
		if existing == value {
			return
		}
	}
	r.shared.values = append(r.shared.values, value)
}

func (r *Redactor) Scrub(text string) string {
	r.shared.mu.RLock()
	defer r.shared.mu.RUnlock()

	for _, secret := range r.shared.values {
		text = strings.ReplaceAll(text, secret, redactedMarker)
	}
	return text
}

func (r *Redactor) Enabled(ctx context.Context, level slog.Level) bool {
	return r.inner.Enabled(ctx, level)
}

func (r *Redactor) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, r.Scrub(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(r.scrubAttr(attr))
		return true
	})

	return r.inner.Handle(ctx, clean)
}

func (r *Redactor) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		scrubbed = append(scrubbed, r.scrubAttr(attr))
	}

	return &Redactor{inner: r.inner.WithAttrs(scrubbed), shared: r.shared}
}

func (r *Redactor) WithGroup(name string) slog.Handler {
	return &Redactor{inner: r.inner.WithGroup(name), shared: r.shared}
}

func (r *Redactor) scrubAttr(attr slog.Attr) slog.Attr {
	value := attr.Value.Resolve()

	switch value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, r.Scrub(value.String()))
	case slog.KindGroup:
		group := value.Group()
		scrubbed := make([]any, 0, len(group))
		for _, member := range group {
			scrubbed = append(scrubbed, r.scrubAttr(member))
		}
		return slog.Group(attr.Key, scrubbed...)
	case slog.KindAny:
		switch v := value.Any().(type) {
		case error:
			return slog.String(attr.Key, r.Scrub(v.Error()))
		case fmt.Stringer:
			return slog.String(attr.Key, r.Scrub(v.String()))
		}
	}

	return slog.Attr{Key: attr.Key, Value: value}
}
