// Package memory implements the storage.Backend interface with scenes held
// in process memory, optionally seeded from and exported to JSON files.
package memory

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/nestorcad/viewercore/internal/config"
	"github.com/nestorcad/viewercore/pkg/core"
)

// Backend stores one scene snapshot per level.
type Backend struct {
	cfg    config.MemoryConfig
	log    *slog.Logger
	scenes map[string]core.Scene

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Backend{
		cfg:    cfg,
		log:    log.With("component", "storage.memory"),
		scenes: make(map[string]core.Scene),
	}
}

// Init loads the seed file when one is configured.
func (b *Backend) Init() error {
	if b.cfg.SeedFile == "" {
		return nil
	}
	scenes, err := ReadSceneFile(b.cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed file: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range scenes {
		b.scenes[s.LevelID] = s.Clone()
	}
	b.log.Info("Loaded seed scenes", "path", b.cfg.SeedFile, "levels", len(scenes))
	return nil
}

// Close exports every scene when an output directory is configured.
func (b *Backend) Close() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exportJSON()
}

// GetScene returns a deep copy of the stored scene.
func (b *Backend) GetScene(levelID string) (core.Scene, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s, ok := b.scenes[levelID]
	if !ok {
		return core.NewScene(levelID), nil
	}
	return s.Clone(), nil
}

// SetScene stores a deep copy of scene under levelID.
func (b *Backend) SetScene(levelID string, scene core.Scene) error {
	scene = scene.Clone()
	scene.LevelID = levelID

	b.mu.Lock()
	defer b.mu.Unlock()
	b.scenes[levelID] = scene
	return nil
}

// Levels lists the stored level ids in sorted order.
func (b *Backend) Levels() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.scenes))
	for id := range b.scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// GetExportedFilePath returns the path written by the last Close.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
