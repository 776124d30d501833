// Package snap resolves raw clicks onto nearby reference points of the
// scene: vertices, edge midpoints and circle centers.
package snap

import (
	"errors"
	"math"

	"github.com/nestorcad/viewercore/internal/drawing"
	"github.com/nestorcad/viewercore/internal/grips"
	"github.com/nestorcad/viewercore/pkg/core"
)

// ErrNoScenes is returned when the resolver has no scene source.
var ErrNoScenes = errors.New("snap resolver has no scene source")

// SceneSource gives read access to the scene being edited.
type SceneSource interface {
	GetScene(levelID string) (core.Scene, error)
}

// DefaultAperture is the snap radius in screen pixels.
const DefaultAperture = 10

// Resolver snaps to the nearest reference point within Aperture screen
// pixels. It implements drawing.SnapResolver.
type Resolver struct {
	Scenes    SceneSource
	LevelID   string
	Aperture  float64
	Transform core.ViewTransform
}

var _ drawing.SnapResolver = (*Resolver)(nil)

// FindSnapPoint returns the reference point closest to (x, y).
func (r *Resolver) FindSnapPoint(x, y float64) (drawing.SnapResult, error) {
	if r.Scenes == nil {
		return drawing.SnapResult{}, ErrNoScenes
	}
	scene, err := r.Scenes.GetScene(r.LevelID)
	if err != nil {
		return drawing.SnapResult{}, err
	}
	aperture := r.Aperture
	if aperture <= 0 {
		aperture = DefaultAperture
	}
	limit := r.Transform.PixelsToWorld(aperture)

	at := core.Pt(x, y)
	best, bestDist := core.Point2D{}, math.Inf(1)
	settings := grips.Settings{MultiGripEdit: true}
	for _, e := range scene.Entities {
		if !scene.IsShown(e) {
			continue
		}
		for _, g := range grips.Grips(e, settings) {
			if d := g.Point.Distance(at); d <= limit && d < bestDist {
				best, bestDist = g.Point, d
			}
		}
	}
	if math.IsInf(bestDist, 1) {
		return drawing.SnapResult{}, nil
	}
	return drawing.SnapResult{Found: true, Point: best}, nil
}
