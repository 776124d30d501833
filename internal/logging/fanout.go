package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sink is one named log destination: the file, the console, the OTel bridge
// or Graylog.
type Sink struct {
	Name    string
	Handler slog.Handler
}

// fanout hands each record to every sink enabled for its level. A failing
// sink does not keep the record from the others; its error comes back
// joined with the rest, tagged with the sink name.
type fanout []Sink

func newFanout(sinks ...Sink) fanout {
	out := make(fanout, 0, len(sinks))
	for _, s := range sinks {
		if s.Handler != nil {
			out = append(out, s)
		}
	}
	return out
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range f {
		if s.Handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range f {
		if !s.Handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(wrap func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, s := range f {
		out[i] = Sink{Name: s.Name, Handler: wrap(s.Handler)}
	}
	return out
}
