package logging

import (
	"fmt"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGELFSink returns a sink shipping records as JSON to a Graylog GELF UDP
// input at addr. The writer must be closed by the caller.
func NewGELFSink(addr, level string) (Sink, *gelf.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return Sink{}, nil, fmt.Errorf("connect graylog %s: %w", addr, err)
	}
	w.Facility = ServiceName
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return Sink{Name: "graylog", Handler: h}, w, nil
}
