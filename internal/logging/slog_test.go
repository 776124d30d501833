package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func swapStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := osStdout
	osStdout = &buf
	t.Cleanup(func() { osStdout = orig })
	return &buf
}

func TestSetup_ConsoleUntilFileIsKnown(t *testing.T) {
	console := swapStdout(t)
	m := NewSlogManager()

	m.Setup(nil, "info", nil)
	m.Logger().Info("Loaded config", "dir", ".")
	assert.Equal(t, []string{"console"}, m.SinkNames())

	var file bytes.Buffer
	m.Setup(&file, "info", nil)
	m.Logger().Info("Session started", "entities", 2)
	assert.Equal(t, []string{"file"}, m.SinkNames())

	assert.Contains(t, console.String(), "Loaded config")
	assert.NotContains(t, console.String(), "Session started")
	assert.Contains(t, file.String(), "Session started")
	assert.Contains(t, file.String(), "entities=2")
}

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, false},
		{"", false, true},
		{"verbose", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var file bytes.Buffer
			m := NewSlogManager()
			m.Setup(&file, tt.level, nil)
			file.Reset()

			m.Logger().Debug("grip hovered")
			m.Logger().Info("Entity committed")

			assert.Equal(t, tt.wantDebug, strings.Contains(file.String(), "grip hovered"))
			assert.Equal(t, tt.wantInfo, strings.Contains(file.String(), "Entity committed"))
		})
	}
}

func TestSetup_OTelAndExtraSinks(t *testing.T) {
	var file, extra bytes.Buffer
	m := NewSlogManager()
	m.Setup(&file, "info", sdklog.NewLoggerProvider(), Sink{Name: "graylog", Handler: slog.NewJSONHandler(&extra, nil)})

	assert.Equal(t, []string{"file", "otel", "graylog"}, m.SinkNames())

	m.Logger().Info("merged", "kind", "layers")
	assert.Contains(t, file.String(), "kind=layers")
	assert.Contains(t, extra.String(), `"msg":"merged"`)
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())

	m.WithSession("abc", "ground")
	assert.Equal(t, slog.Default(), m.Logger())
}

func TestWithSession_StampsRecords(t *testing.T) {
	var file bytes.Buffer
	m := NewSlogManager()
	m.Setup(&file, "info", nil)
	m.WithSession("abc-123", "ground")

	m.Logger().Info("Replay finished", "commands", 6)

	out := file.String()
	assert.Contains(t, out, "session=abc-123")
	assert.Contains(t, out, "levelId=ground")
	assert.Contains(t, out, "commands=6")
}

func TestStampHandler_SkipsRecordsAlreadyStamped(t *testing.T) {
	var buf bytes.Buffer
	h := newStampHandler(slog.NewTextHandler(&buf, nil), "s1", "ground")

	// a session logger carries its own ids
	slog.New(h).With(SessionKey, "s1", LevelKey, "ground").Info("Session started")
	assert.Equal(t, 1, strings.Count(buf.String(), "session="))

	buf.Reset()
	slog.New(h).Info("move skipped", SessionKey, "s2")
	assert.Equal(t, 1, strings.Count(buf.String(), "session="))
	assert.Contains(t, buf.String(), "session=s2")

	buf.Reset()
	slog.New(h).With("component", "storage.memory").Info("Exported scenes")
	assert.Contains(t, buf.String(), "component=storage.memory")
	assert.Contains(t, buf.String(), "session=s1")
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("udp closed")
}

func TestFanout_FailingSinkDoesNotStopOthers(t *testing.T) {
	var file bytes.Buffer
	f := newFanout(
		Sink{Name: "graylog", Handler: failingHandler{}},
		Sink{Name: "missing"},
		Sink{Name: "file", Handler: slog.NewTextHandler(&file, nil)},
	)
	require.Len(t, f, 2)

	err := f.Handle(context.Background(), slog.NewRecord(testTime, slog.LevelInfo, "Entity committed", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graylog sink: udp closed")
	assert.Contains(t, file.String(), "Entity committed")
}

func TestFanout_EnabledByAnySink(t *testing.T) {
	info := Sink{Name: "file", Handler: slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})}
	debug := Sink{Name: "otel", Handler: slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})}

	assert.False(t, newFanout(info).Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, newFanout(info, debug).Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, newFanout().Enabled(context.Background(), slog.LevelError))
}

func TestFanout_WithGroupKeepsSinkNames(t *testing.T) {
	var buf bytes.Buffer
	f := newFanout(Sink{Name: "file", Handler: slog.NewTextHandler(&buf, nil)})

	g := f.WithGroup("snap").(fanout)
	assert.Equal(t, "file", g[0].Name)
	slog.New(g).Info("snapped", "x", 1)
	assert.Contains(t, buf.String(), "snap.x=1")

	assert.Equal(t, f, f.WithGroup(""))
}
