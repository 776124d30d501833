package sqlitestorage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nestorcad/viewercore/internal/database"
	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_StoresScenes(t *testing.T) {
	b, err := New(Config{}, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })

	in := core.NewScene("L1").WithEntity(core.Entity{
		ID: "entity_1", Layer: core.DefaultLayer, Visible: true,
		Geometry: core.Line{Start: core.Pt(0, 0), End: core.Pt(1, 1)},
	})
	require.NoError(t, b.SetScene("L1", in))

	got, err := b.GetScene("L1")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestClose_WritesFinalDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.db")
	b, err := New(Config{DumpPath: path, DumpInterval: time.Hour}, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	require.NoError(t, b.SetScene("L1", core.NewScene("L1")))
	require.NoError(t, b.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	disk, err := database.GetSqliteDB(path)
	require.NoError(t, err)
	var count int64
	require.NoError(t, disk.Table("levels").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDumpLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.db")
	b, err := New(Config{DumpPath: path, DumpInterval: 10 * time.Millisecond}, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}
