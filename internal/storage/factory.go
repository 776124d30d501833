package storage

import (
	"fmt"
	"log/slog"

	"github.com/nestorcad/viewercore/internal/config"
	"github.com/nestorcad/viewercore/internal/database"
	"github.com/nestorcad/viewercore/internal/storage/memory"
	pgstorage "github.com/nestorcad/viewercore/internal/storage/postgres"
	sqlitestorage "github.com/nestorcad/viewercore/internal/storage/sqlite"
	wsstorage "github.com/nestorcad/viewercore/internal/storage/websocket"
)

// NewBackend creates a storage backend based on configuration. The returned
// backend is not initialized yet.
func NewBackend(cfg config.StorageConfig, log *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return pgstorage.New(pgstorage.Dependencies{
			DSN: database.PostgresDSN{
				Host:     cfg.DB.Host,
				Port:     cfg.DB.Port,
				Username: cfg.DB.Username,
				Password: cfg.DB.Password,
				Database: cfg.DB.Database,
			},
			Logger: log,
		}), nil
	case "sqlite":
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.Path,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		return backend, nil
	case "websocket":
		if cfg.Websocket.URL == "" {
			return nil, fmt.Errorf("websocket storage requires storage.websocket.url")
		}
		return wsstorage.New(cfg.Websocket, log), nil
	case "memory", "":
		return memory.New(cfg.Memory, log), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
