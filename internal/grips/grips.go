// Package grips enumerates the handle points of an entity and derives their
// visual state from the session's hovered and active references.
package grips

import (
	"github.com/nestorcad/viewercore/internal/geo"
	"github.com/nestorcad/viewercore/pkg/core"
)

// Kind is the role of a grip.
type Kind int

const (
	Vertex Kind = iota
	EdgeMidpoint
)

func (k Kind) String() string {
	if k == EdgeMidpoint {
		return "edge-midpoint"
	}
	return "vertex"
}

// Grip is one handle. Vertex grips come first, edge midpoints follow.
type Grip struct {
	Index int          `json:"index"`
	Kind  Kind         `json:"kind"`
	Point core.Point2D `json:"point"`
}

// Settings are read by the rendering side and by hit testing.
type Settings struct {
	Size              int    `json:"size"`
	ColdColor         string `json:"coldColor"`
	WarmColor         string `json:"warmColor"`
	HotColor          string `json:"hotColor"`
	ContourColor      string `json:"contourColor"`
	PickBoxSize       int    `json:"pickBoxSize"`
	ApertureSize      int    `json:"apertureSize"`
	MultiGripEdit     bool   `json:"multiGripEdit"`
	MaxGripsPerEntity int    `json:"maxGripsPerEntity"`
	// DevicePixelRatio scales the hit aperture; 0 reads as 1.
	DevicePixelRatio float64 `json:"devicePixelRatio"`
}

// DefaultSettings returns the stock grip settings.
func DefaultSettings() Settings {
	return Settings{
		Size:              7,
		ColdColor:         "#0000FF",
		WarmColor:         "#FF00FF",
		HotColor:          "#FF0000",
		ContourColor:      "#000000",
		PickBoxSize:       3,
		ApertureSize:      8,
		MultiGripEdit:     true,
		MaxGripsPerEntity: 50,
		DevicePixelRatio:  1,
	}
}

// Grips lists the grips of e. Edge midpoints are only added with
// MultiGripEdit. A positive MaxGripsPerEntity truncates the list.
func Grips(e core.Entity, s Settings) []Grip {
	vertices, edges := handles(e.Geometry)
	out := make([]Grip, 0, len(vertices)+len(edges))
	for _, v := range vertices {
		out = append(out, Grip{Index: len(out), Kind: Vertex, Point: v})
	}
	if s.MultiGripEdit {
		for _, ed := range edges {
			out = append(out, Grip{Index: len(out), Kind: EdgeMidpoint, Point: ed[0].Midpoint(ed[1])})
		}
	}
	if s.MaxGripsPerEntity > 0 && len(out) > s.MaxGripsPerEntity {
		out = out[:s.MaxGripsPerEntity]
	}
	return out
}

func handles(g core.Geometry) ([]core.Point2D, [][2]core.Point2D) {
	switch v := g.(type) {
	case core.Line:
		pts := []core.Point2D{v.Start, v.End}
		return pts, geo.Edges(pts, false)
	case core.Rectangle:
		pts := v.Corners()
		return pts, geo.Edges(pts, true)
	case core.Polyline:
		return v.Vertices, geo.Edges(v.Vertices, v.Closed)
	case core.Circle:
		c, r := v.Center, v.Radius
		return []core.Point2D{
			c,
			{X: c.X + r, Y: c.Y},
			{X: c.X, Y: c.Y + r},
			{X: c.X - r, Y: c.Y},
			{X: c.X, Y: c.Y - r},
		}, nil
	case core.Arc:
		return []core.Point2D{v.Center, v.PointAt(v.StartAngle), v.PointAt(v.EndAngle)}, nil
	case core.AngleMeasurement:
		return []core.Point2D{v.Vertex, v.Point1, v.Point2},
			[][2]core.Point2D{{v.Vertex, v.Point1}, {v.Vertex, v.Point2}}
	}
	return nil, nil
}

// HitTest returns the first grip of e whose screen position lies within the
// aperture (scaled by the device pixel ratio) of screen.
func HitTest(screen core.Point2D, e core.Entity, t core.ViewTransform, vp core.Viewport, s Settings, dpr float64) (Grip, bool) {
	if dpr <= 0 {
		dpr = 1
	}
	aperture := float64(s.ApertureSize)
	if aperture <= 0 {
		aperture = float64(DefaultSettings().ApertureSize)
	}
	tolerance := aperture * dpr
	for _, g := range Grips(e, s) {
		if t.WorldToScreen(g.Point, vp).Distance(screen) <= tolerance {
			return g, true
		}
	}
	return Grip{}, false
}
