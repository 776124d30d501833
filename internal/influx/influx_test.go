package influx

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nestorcad/viewercore/internal/config"
	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), "")
	assert.ErrorIs(t, m.Connect(context.Background()), ErrDisabled)
}

func TestCommitPoint(t *testing.T) {
	at := time.Unix(1700000000, 0)
	e := core.Entity{ID: "entity_1", Layer: "0", Measurement: true,
		Geometry: core.Line{Start: core.Pt(0, 0), End: core.Pt(3, 4)}}

	p := CommitPoint("L1", e, at)
	assert.Equal(t, MeasurementCommit, p.Name())

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{"levelId": "L1", "type": "line", "layer": "0", "measurement": "true"}, tags)

	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, 5.0, fields["length"])
	assert.Equal(t, 0.0, fields["area"])
	assert.Equal(t, at, p.Time())
}

func TestBackupWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.lp.gz")
	m := NewManager(config.InfluxConfig{
		Enabled: true, Protocol: "http", Host: "127.0.0.1", Port: "1", Org: "o", Bucket: "b",
	}, zerolog.Nop(), path)

	require.NoError(t, m.Connect(context.Background()))
	assert.False(t, m.IsValid)

	m.MergeCompleted("L1", "layers", 3)
	m.EntityCommitted("L1", core.Entity{ID: "entity_9", Layer: "0",
		Geometry: core.Circle{Center: core.Pt(0, 0), Radius: 1}})
	require.NoError(t, m.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "merge,"), lines[0])
	assert.Contains(t, lines[0], "members=3i")
	assert.True(t, strings.HasPrefix(lines[1], "entity_commit,"), lines[1])
}

func TestWritePoint_NotConnected(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), "")
	assert.Error(t, m.WritePoint(MergePoint("L1", "entities", 2, time.Now())))
}
