package logging

import (
	"context"
	"log/slog"
)

// Attribute keys identifying a viewer session in every record.
const (
	SessionKey = "session"
	LevelKey   = "levelId"
)

// stampHandler adds the session and level ids to records that do not carry
// them yet. A session's own logger already adds both with With, so those
// records pass through unchanged instead of being stamped twice.
type stampHandler struct {
	inner   slog.Handler
	session string
	level   string
	stamped bool
}

func newStampHandler(inner slog.Handler, sessionID, levelID string) *stampHandler {
	return &stampHandler{inner: inner, session: sessionID, level: levelID}
}

func (h *stampHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *stampHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.stamped && !hasKey(r, SessionKey) {
		r.AddAttrs(slog.String(SessionKey, h.session), slog.String(LevelKey, h.level))
	}
	return h.inner.Handle(ctx, r)
}

func (h *stampHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		if a.Key == SessionKey {
			out.stamped = true
		}
	}
	return &out
}

func (h *stampHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	// ids stay at the top level; inside a group they would be nested
	out := *h
	out.inner = h.inner.WithGroup(name)
	out.stamped = true
	return &out
}

func hasKey(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		found = a.Key == key
		return !found
	})
	return found
}
