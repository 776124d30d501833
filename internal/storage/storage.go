// Package storage defines the scene store the viewer core reads from and
// writes to, and picks an implementation from configuration.
package storage

import "github.com/nestorcad/viewercore/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// GetScene returns the snapshot of a level. Unknown levels yield an
	// empty scene carrying the requested id.
	GetScene(levelID string) (core.Scene, error)
	// SetScene replaces the snapshot of a level.
	SetScene(levelID string, scene core.Scene) error
}

// Lister is an optional interface for backends that can enumerate their
// levels.
type Lister interface {
	Levels() ([]string, error)
}
