// Package postgres implements the storage.Backend interface using GORM/PostgreSQL.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/nestorcad/viewercore/internal/database"
	gormstorage "github.com/nestorcad/viewercore/internal/storage/gorm"
)

// Dependencies holds all dependencies for the Postgres storage backend.
type Dependencies struct {
	DSN    database.PostgresDSN
	Logger *slog.Logger
}

// Backend connects to Postgres on Init and stores scenes through the
// embedded GORM backend.
type Backend struct {
	*gormstorage.Backend
	deps Dependencies
}

// New creates a new Postgres storage backend. No connection is made until
// Init.
func New(deps Dependencies) *Backend {
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{Logger: deps.Logger}),
		deps:    deps,
	}
}

// Init opens and validates the connection, then migrates the schema.
// A connection injected with SetDB is used as is.
func (b *Backend) Init() error {
	if b.DB() == nil {
		db, err := database.GetPostgresDB(b.deps.DSN)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.SetDB(db)
	}
	return b.Backend.Init()
}
