package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nestorcad/viewercore/internal/config"
	"github.com/nestorcad/viewercore/internal/dispatcher"
	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_SkipsCommentsAndReportsFailures(t *testing.T) {
	d, err := dispatcher.New(slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer d.Close()

	d.Register(":ECHO:", func(e dispatcher.Event) (any, error) {
		return e.Args, nil
	})
	d.Register(":SILENT:", func(e dispatcher.Event) (any, error) {
		return nil, nil
	})

	script := strings.Join([]string{
		"# comment",
		"",
		`:ECHO: a "b c"`,
		":SILENT:",
		":MISSING:",
	}, "\n")

	var out bytes.Buffer
	stats, err := replay(d, strings.NewReader(script), &out)
	require.NoError(t, err)

	assert.Equal(t, replayStats{Commands: 3, Failed: 1}, stats)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `3 :ECHO: ["a","b c"]`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "5 :MISSING: error:"))
}

func TestWriteScene(t *testing.T) {
	scene := core.NewScene("level-1")
	scene.Entities = []core.Entity{
		{ID: "entity_1", Layer: core.DefaultLayer, Visible: true, Geometry: core.Line{Start: core.Pt(0, 0), End: core.Pt(1, 1)}},
		{ID: "entity_2", Layer: core.DefaultLayer, Visible: true},
	}

	var out bytes.Buffer
	require.NoError(t, writeScene(&out, scene))

	text := out.String()
	assert.Contains(t, text, "level level-1")
	assert.Contains(t, text, "entity_1")
	assert.Contains(t, text, "LINESTRING")
	assert.Contains(t, text, "entity_2")
}

func TestRun_ReplayFromStdin(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	logsDir := filepath.Join(dir, "logs")
	cfg := fmt.Sprintf(`{"logsDir": %q, "levelId": "ground", "snap": {"enabled": false}}`, logsDir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))
	t.Setenv("VIEWERCORE_CONFIG_DIR", dir)

	script := strings.Join([]string{
		":VIEW:SET: 1 0 0 800 600",
		":TOOL:START: line",
		":POINTER:DOWN: 0 600",
		":POINTER:DOWN: 100 600",
		":SELECT:ENTITY: entity_1",
		":KEY:DOWN: ArrowUp",
	}, "\n")

	var out bytes.Buffer
	code := run([]string{"replay", "-"}, strings.NewReader(script), &out)
	require.Equal(t, 0, code, out.String())

	text := out.String()
	assert.Contains(t, text, "level ground")
	assert.Contains(t, text, "entity_1")
	assert.Contains(t, text, "LINESTRING")

	entries, err := os.ReadDir(logsDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	cfg := fmt.Sprintf(`{"logsDir": %q}`, filepath.Join(dir, "logs"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))
	t.Setenv("VIEWERCORE_CONFIG_DIR", dir)

	var out bytes.Buffer
	assert.Equal(t, 2, run([]string{"frobnicate"}, strings.NewReader(""), &out))
	assert.Equal(t, 2, run(nil, strings.NewReader(""), &out))
}
