// Package logging forwards warnings and errors from slog into the events
// table, so operational problems show up next to content and auth audit
// entries.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/renacermascotas/renacer-go/internal/model"
	"github.com/renacermascotas/renacer-go/internal/store"
)

// categoryKeywords maps message substrings to event categories, checked in
// order. Used when a record carries no explicit "category" attribute.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{model.EventCategoryAuth, []string{"auth", "login", "logout"}},
	{model.EventCategoryMedia, []string{"upload", "media", "blob", "thumbnail"}},
	{model.EventCategoryContent, []string{"post", "gallery", "testimonial", "partner", "agreement", "content"}},
	{model.EventCategoryCache, []string{"cache"}},
}

// EventLogHandler decorates another slog.Handler and mirrors records at or
// above its threshold into the event log.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewEventLogHandler mirrors WARN and above into the event log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel mirrors records at or above level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{inner: inner, queries: store.New(db), level: level}
}

func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.record(r)
	}
	return nil
}

func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level}
}

func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level}
}

// record persists one log record as an event. A background context keeps the
// write alive when the request context is already cancelled, and failures are
// swallowed since there is nowhere left to report them.
func (h *EventLogHandler) record(r slog.Record) {
	_ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     h.slogLevelToEventLevel(r.Level),
		Category:  eventCategory(r),
		Message:   r.Message,
		UserID:    sql.NullInt64{},
		Metadata:  attrMetadata(r),
		CreatedAt: r.Time,
	})
}

func (h *EventLogHandler) slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// eventCategory prefers an explicit "category" attribute and falls back to
// keyword matching on the message.
func eventCategory(r slog.Record) string {
	var explicit string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			explicit = a.Value.String()
			return false
		}
		return true
	})
	if explicit != "" {
		return explicit
	}

	msg := strings.ToLower(r.Message)
	for _, group := range categoryKeywords {
		for _, word := range group.words {
			if strings.Contains(msg, word) {
				return group.category
			}
		}
	}
	return model.EventCategorySystem
}

// attrMetadata flattens the record attributes into a JSON object of string
// values. The category attribute is omitted, it already has its own column.
func attrMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"` + escapeJSON(a.Key) + `":"` + escapeJSON(a.Value.String()) + `"`)
		return true
	})
	sb.WriteString("}")
	return sb.String()
}

func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
