package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// ServiceName is reported to OTel and Graylog.
const ServiceName = "viewercore"

// osStdout is the console sink; tests swap it.
var osStdout io.Writer = os.Stdout

// SlogManager owns the process logger. Setup may run more than once: the
// CLI starts on the console and switches to the log file once the config is
// read.
type SlogManager struct {
	logger *slog.Logger
	sinks  fanout
}

// NewSlogManager creates a manager; Logger falls back to slog.Default until
// Setup runs.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Setup routes records to file, or to the console when file is nil, plus
// the OTel bridge when provider is set and every extra sink.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, extra ...Sink) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if t, ok := a.Value.Any().(time.Time); ok && a.Key == slog.TimeKey {
				a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
			}
			return a
		},
	}

	sinks := make([]Sink, 0, 2+len(extra))
	if file != nil {
		sinks = append(sinks, Sink{Name: "file", Handler: slog.NewTextHandler(file, opts)})
	} else {
		sinks = append(sinks, Sink{Name: "console", Handler: slog.NewTextHandler(osStdout, opts)})
	}
	if provider != nil {
		sinks = append(sinks, Sink{Name: "otel", Handler: otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(provider))})
	}
	sinks = append(sinks, extra...)

	m.sinks = newFanout(sinks...)
	m.logger = slog.New(m.sinks)
	m.logger.Info("Logging initialized", "level", level, "sinks", m.SinkNames())
}

// WithSession stamps every later record that lacks them with the session
// and level ids.
func (m *SlogManager) WithSession(sessionID, levelID string) {
	if m.sinks == nil {
		return
	}
	m.logger = slog.New(newStampHandler(m.sinks, sessionID, levelID))
}

// SinkNames lists the active sinks in delivery order.
func (m *SlogManager) SinkNames() []string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name
	}
	return names
}

// Logger returns the configured logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
