package storage_test

import (
	"testing"

	"github.com/nestorcad/viewercore/internal/config"
	"github.com/nestorcad/viewercore/internal/session"
	"github.com/nestorcad/viewercore/internal/storage"
	gormstorage "github.com/nestorcad/viewercore/internal/storage/gorm"
	"github.com/nestorcad/viewercore/internal/storage/memory"
	pgstorage "github.com/nestorcad/viewercore/internal/storage/postgres"
	sqlitestorage "github.com/nestorcad/viewercore/internal/storage/sqlite"
	wsstorage "github.com/nestorcad/viewercore/internal/storage/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ storage.Backend = (*memory.Backend)(nil)
	_ storage.Backend = (*gormstorage.Backend)(nil)
	_ storage.Backend = (*sqlitestorage.Backend)(nil)
	_ storage.Backend = (*pgstorage.Backend)(nil)
	_ storage.Backend = (*wsstorage.Backend)(nil)
	_ storage.Lister  = (*memory.Backend)(nil)
	_ storage.Lister  = (*gormstorage.Backend)(nil)
	_ storage.Lister  = (*wsstorage.Backend)(nil)

	_ session.SceneStore  = storage.Backend(nil)
	_ session.RectQuerier = (*gormstorage.Backend)(nil)
	_ session.RectQuerier = (*sqlitestorage.Backend)(nil)
	_ session.RectQuerier = (*pgstorage.Backend)(nil)
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		typ  string
		want any
	}{
		{"", &memory.Backend{}},
		{"memory", &memory.Backend{}},
		{"sqlite", &sqlitestorage.Backend{}},
		{"postgres", &pgstorage.Backend{}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			b, err := storage.NewBackend(config.StorageConfig{Type: tt.typ}, nil)
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
		})
	}
}

func TestNewBackend_Websocket(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{
		Type:      "websocket",
		Websocket: config.WebsocketConfig{URL: "ws://localhost:5000/scenes"},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &wsstorage.Backend{}, b)

	_, err = storage.NewBackend(config.StorageConfig{Type: "websocket"}, nil)
	assert.Error(t, err)
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := storage.NewBackend(config.StorageConfig{Type: "s3"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}
