// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors audit-worthy records
// into the events collection.
package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/olegiv/academy/internal/model"
)

// CategoryKey is the attribute that marks a record for the audit log and
// names its category.
const CategoryKey = "category"

// EventRecorder persists audit events.
type EventRecorder interface {
	Append(ctx context.Context, ev model.Event) (model.Event, error)
}

type auditWriteKey struct{}

// EventLogHandler wraps another handler and also writes WARN and ERROR
// records, plus any record carrying a category attribute, to the event log.
type EventLogHandler struct {
	inner    slog.Handler
	recorder EventRecorder
	level    slog.Level // Minimum level forwarded without a category attribute
	mu       *sync.Mutex
}

// NewEventLogHandler creates an EventLogHandler forwarding WARN and above.
func NewEventLogHandler(inner slog.Handler, recorder EventRecorder) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, recorder, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates an EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, recorder EventRecorder, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:    inner,
		recorder: recorder,
		level:    level,
		mu:       &sync.Mutex{},
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	// Records emitted while an event is being stored are not stored again.
	if ctx != nil && ctx.Value(auditWriteKey{}) != nil {
		return nil
	}

	category, hasCategory := extractCategory(r)
	if r.Level >= h.level || hasCategory {
		h.writeToEventLog(r, category)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:    h.inner.WithAttrs(attrs),
		recorder: h.recorder,
		level:    h.level,
		mu:       h.mu,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:    h.inner.WithGroup(name),
		recorder: h.recorder,
		level:    h.level,
		mu:       h.mu,
	}
}

// writeToEventLog stores r. It runs on a background context so events are
// kept even when the request was cancelled, and serializes writers since
// the collection is rewritten in full.
func (h *EventLogHandler) writeToEventLog(r slog.Record, category string) {
	if category == "" {
		category = inferCategory(r.Message)
	}
	ev := model.Event{
		Level:     eventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  extractMetadata(r),
		CreatedAt: r.Time.UTC(),
	}

	ctx := context.WithValue(context.Background(), auditWriteKey{}, true)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = h.recorder.Append(ctx, ev)
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

func extractCategory(r slog.Record) (string, bool) {
	var category string
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == CategoryKey {
			category = a.Value.String()
			found = true
			return false
		}
		return true
	})
	return category, found
}

// inferCategory guesses a category from the log message.
func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case containsAny(msg, "auth", "login", "logout", "password", "session", "credential"):
		return model.EventCategoryAuth
	case containsAny(msg, "post", "book", "manuscript", "lesson", "content"):
		return model.EventCategoryContent
	case containsAny(msg, "user", "admin", "subscri"):
		return model.EventCategoryUser
	case containsAny(msg, "store", "database", "redis", "collection", "backup", "migrat", "import", "export"):
		return model.EventCategoryStore
	default:
		return model.EventCategorySystem
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// extractMetadata collects the record attributes, category excluded.
func extractMetadata(r slog.Record) map[string]string {
	if r.NumAttrs() == 0 {
		return nil
	}
	md := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != CategoryKey {
			md[a.Key] = a.Value.String()
		}
		return true
	})
	if len(md) == 0 {
		return nil
	}
	return md
}
