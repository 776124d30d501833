// Package gormstorage implements the storage.Backend interface on top of a
// GORM connection. Dialect specific setup lives in the sqlite and postgres
// packages which embed this backend.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nestorcad/viewercore/internal/model"
	"github.com/nestorcad/viewercore/internal/model/convert"
	"github.com/nestorcad/viewercore/pkg/core"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotInitialized is returned by scene operations before Init.
var ErrNotInitialized = errors.New("gorm backend not initialized")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

// Backend stores scenes as level, layer and entity rows.
type Backend struct {
	deps    Dependencies
	log     *slog.Logger
	dbReady bool
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Backend{deps: deps, log: log.With("component", "storage.gorm")}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// SetDB injects a connection opened after New, before Init.
func (b *Backend) SetDB(db *gorm.DB) {
	b.deps.DB = db
}

// Init migrates the scene schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return ErrNotInitialized
	}
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	b.dbReady = true
	b.log.Info("Database setup complete", "dialect", b.deps.DB.Dialector.Name())
	return nil
}

// Close releases the connection pool.
func (b *Backend) Close() error {
	if b.deps.DB == nil {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	b.dbReady = false
	return sqlDB.Close()
}

// GetScene loads a level and its rows. Unknown levels yield core.NewScene.
func (b *Backend) GetScene(levelID string) (core.Scene, error) {
	if !b.dbReady {
		return core.Scene{}, ErrNotInitialized
	}
	db := b.deps.DB

	var level model.Level
	err := db.Where("id = ?", levelID).Limit(1).Find(&level).Error
	if err != nil {
		return core.Scene{}, fmt.Errorf("failed to load level %s: %w", levelID, err)
	}
	if level.ID == "" {
		return core.NewScene(levelID), nil
	}

	var layers []model.Layer
	if err := db.Where("level_id = ?", levelID).Order("position").Find(&layers).Error; err != nil {
		return core.Scene{}, fmt.Errorf("failed to load layers of %s: %w", levelID, err)
	}
	var entities []model.Entity
	if err := db.Where("level_id = ?", levelID).Order("position").Find(&entities).Error; err != nil {
		return core.Scene{}, fmt.Errorf("failed to load entities of %s: %w", levelID, err)
	}
	return convert.RowsToScene(level, layers, entities)
}

// SetScene replaces every row of the level in a single transaction.
func (b *Backend) SetScene(levelID string, scene core.Scene) error {
	if !b.dbReady {
		return ErrNotInitialized
	}
	scene.LevelID = levelID

	level := convert.CoreToLevel(scene)
	level.UpdatedAt = time.Now().UTC()
	layers := convert.CoreToLayers(scene)
	entities, err := convert.CoreToEntities(scene)
	if err != nil {
		return err
	}

	start := time.Now()
	err = b.deps.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"version", "epsg", "updated_at"}),
		}).Create(&level).Error; err != nil {
			return fmt.Errorf("failed to upsert level: %w", err)
		}
		if err := tx.Where("level_id = ?", levelID).Delete(&model.Entity{}).Error; err != nil {
			return fmt.Errorf("failed to clear entities: %w", err)
		}
		if err := tx.Where("level_id = ?", levelID).Delete(&model.Layer{}).Error; err != nil {
			return fmt.Errorf("failed to clear layers: %w", err)
		}
		if len(layers) > 0 {
			if err := tx.Omit(clause.Associations).Create(&layers).Error; err != nil {
				return fmt.Errorf("failed to insert layers: %w", err)
			}
		}
		if len(entities) > 0 {
			if err := tx.Omit(clause.Associations).Create(&entities).Error; err != nil {
				return fmt.Errorf("failed to insert entities: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.log.Debug("Stored scene", "levelId", levelID, "version", scene.Version,
		"entities", len(entities), "duration", time.Since(start))
	return nil
}

// Levels lists the stored level ids.
func (b *Backend) Levels() ([]string, error) {
	if !b.dbReady {
		return nil, ErrNotInitialized
	}
	var ids []string
	if err := b.deps.DB.Model(&model.Level{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	return ids, nil
}

// EntitiesInRect returns the ids of entities whose stored box overlaps r,
// in scene order.
func (b *Backend) EntitiesInRect(levelID string, r core.Rect) ([]core.EntityID, error) {
	if !b.dbReady {
		return nil, ErrNotInitialized
	}
	var ids []string
	err := b.deps.DB.Model(&model.Entity{}).
		Where("level_id = ?", levelID).
		Where("min_x <= ? AND max_x >= ? AND min_y <= ? AND max_y >= ?", r.MaxX, r.MinX, r.MaxY, r.MinY).
		Order("position").
		Pluck("entity_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	out := make([]core.EntityID, len(ids))
	for i, id := range ids {
		out[i] = core.EntityID(id)
	}
	return out, nil
}
