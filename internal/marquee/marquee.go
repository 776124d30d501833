// Package marquee resolves a rubber-band rectangle into the entities it
// selects.
package marquee

import (
	"fmt"
	"strings"

	"github.com/nestorcad/viewercore/internal/geo"
	"github.com/nestorcad/viewercore/pkg/core"
)

// Mode chooses between full containment and boundary crossing.
type Mode string

const (
	// Window selects entities fully inside the rectangle.
	Window Mode = "window"
	// Crossing also selects entities touching or crossing the rectangle.
	Crossing Mode = "crossing"
)

// ParseMode accepts "window" or "crossing", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Window:
		return Window, nil
	case Crossing:
		return Crossing, nil
	}
	return "", fmt.Errorf("unknown marquee mode %q", s)
}

// ModeFromDrag follows the usual CAD convention: dragging to the right is a
// window selection, dragging to the left a crossing selection.
func ModeFromDrag(from, to core.Point2D) Mode {
	if to.X >= from.X {
		return Window
	}
	return Crossing
}

// WorldRect converts two screen anchors into a world rectangle. Each anchor
// is transformed on its own before the min/max combination.
func WorldRect(a, b core.Point2D, t core.ViewTransform, vp core.Viewport) core.Rect {
	return core.RectFromPoints(t.ScreenToWorld(a, vp), t.ScreenToWorld(b, vp))
}

// Select returns the ids, in scene order, of the shown entities matched by
// the marquee spanned by screen anchors a and b.
func Select(a, b core.Point2D, t core.ViewTransform, vp core.Viewport, scene core.Scene, mode Mode) []core.EntityID {
	return SelectWorld(WorldRect(a, b, t, vp), scene, mode)
}

// SelectWorld is Select for a rectangle already in world coordinates.
func SelectWorld(r core.Rect, scene core.Scene, mode Mode) []core.EntityID {
	var ids []core.EntityID
	for _, e := range scene.Entities {
		if !scene.IsShown(e) || e.Geometry == nil {
			continue
		}
		if Matches(e.Geometry, r, mode) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Matches applies the per-type predicate of mode to one geometry.
func Matches(g core.Geometry, r core.Rect, mode Mode) bool {
	if mode == Crossing {
		return Enclosed(g, r) || Crosses(g, r)
	}
	return Enclosed(g, r)
}

// Enclosed reports whether g lies fully inside r.
func Enclosed(g core.Geometry, r core.Rect) bool {
	if vertices, _, ok := outline(g); ok {
		if len(vertices) == 0 {
			return false
		}
		for _, v := range vertices {
			if !r.Contains(v) {
				return false
			}
		}
		return true
	}
	if b, ok := g.(core.Bounded); ok {
		return r.ContainsRect(b.Bounds())
	}
	return false
}

// Crosses reports whether any part of g touches r. Circles, arcs and other
// bounded kinds use their bounding box.
func Crosses(g core.Geometry, r core.Rect) bool {
	if vertices, closed, ok := outline(g); ok {
		if len(vertices) == 1 {
			return r.Contains(vertices[0])
		}
		for _, e := range geo.Edges(vertices, closed) {
			if geo.SegmentTouchesRect(e[0], e[1], r) {
				return true
			}
		}
		return false
	}
	if b, ok := g.(core.Bounded); ok {
		return r.Overlaps(b.Bounds())
	}
	return false
}

// outline returns the vertex chain of the segment-based kinds.
func outline(g core.Geometry) ([]core.Point2D, bool, bool) {
	switch v := g.(type) {
	case core.Line:
		return []core.Point2D{v.Start, v.End}, false, true
	case core.Polyline:
		return v.Vertices, v.Closed, true
	case core.Rectangle:
		return v.Corners(), true, true
	case core.AngleMeasurement:
		return []core.Point2D{v.Point1, v.Vertex, v.Point2}, false, true
	}
	return nil, false, false
}
