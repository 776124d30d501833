// Package builder turns a tool kind and an ordered point list into a scene
// entity. Each tool registers its own minimum arity and completion rule, so
// adding a tool never grows a shared branch list.
package builder

import (
	"errors"
	"sync"

	"github.com/nestorcad/viewercore/internal/geo"
	"github.com/nestorcad/viewercore/pkg/core"
)

// ErrInsufficientPoints describes a build attempted below a tool's arity.
// Build reports it only through its ok result; it is exported so callers
// can name the condition in diagnostics.
var ErrInsufficientPoints = errors.New("insufficient points for tool")

// ToolKind names a drawing tool.
type ToolKind string

const (
	ToolLine             ToolKind = "line"
	ToolMeasureDistance  ToolKind = "measure-distance"
	ToolRectangle        ToolKind = "rectangle"
	ToolCircle           ToolKind = "circle"
	ToolCircleDiameter   ToolKind = "circle-diameter"
	ToolCircle2PDiameter ToolKind = "circle-2p-diameter"
	ToolPolyline         ToolKind = "polyline"
	ToolPolygon          ToolKind = "polygon"
	ToolMeasureArea      ToolKind = "measure-area"
	ToolMeasureAngle     ToolKind = "measure-angle"
)

// IDSource allocates fresh entity ids.
type IDSource interface {
	Next() core.EntityID
}

// Func builds the geometry for a point list that already satisfies
// MinPoints. It reports false when the points cannot form the shape.
type Func func(points []core.Point2D) (core.Geometry, bool)

// Spec describes one tool.
type Spec struct {
	// MinPoints is the fewest points the builder accepts.
	MinPoints int
	// CompleteAt is the point count at which drawing auto-completes.
	// Zero means the tool only finishes explicitly.
	CompleteAt int
	// Measurement marks produced entities as measurements.
	Measurement bool
	Build       Func
}

var (
	registryMu sync.RWMutex
	registry   = map[ToolKind]Spec{}
)

// Register adds or replaces a tool.
func Register(kind ToolKind, spec Spec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = spec
}

// Lookup returns the Spec registered for kind.
func Lookup(kind ToolKind) (Spec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[kind]
	return s, ok
}

// Complete reports whether a tool auto-completes with n buffered points.
func Complete(kind ToolKind, n int) bool {
	s, ok := Lookup(kind)
	return ok && s.CompleteAt > 0 && n == s.CompleteAt
}

// AutoCompletes reports whether a tool ever completes without an explicit
// finish.
func AutoCompletes(kind ToolKind) bool {
	s, ok := Lookup(kind)
	return ok && s.CompleteAt > 0
}

// Build constructs a committed-shape entity on the default layer. It is
// deterministic apart from the id drawn from ids, and returns false for
// unknown tools or fewer points than the tool needs.
func Build(kind ToolKind, points []core.Point2D, ids IDSource) (core.Entity, bool) {
	g, spec, ok := BuildGeometry(kind, points)
	if !ok {
		return core.Entity{}, false
	}
	return core.Entity{
		ID:          ids.Next(),
		Layer:       core.DefaultLayer,
		Visible:     true,
		Measurement: spec.Measurement,
		Geometry:    g,
	}, true
}

// BuildGeometry is Build without id allocation.
func BuildGeometry(kind ToolKind, points []core.Point2D) (core.Geometry, Spec, bool) {
	spec, ok := Lookup(kind)
	if !ok || len(points) < spec.MinPoints {
		return nil, spec, false
	}
	g, ok := spec.Build(points)
	return g, spec, ok
}

func init() {
	twoPointLine := func(p []core.Point2D) (core.Geometry, bool) {
		return core.Line{Start: p[0], End: p[1]}, true
	}
	Register(ToolLine, Spec{MinPoints: 2, CompleteAt: 2, Build: twoPointLine})
	Register(ToolMeasureDistance, Spec{MinPoints: 2, CompleteAt: 2, Measurement: true, Build: twoPointLine})

	Register(ToolRectangle, Spec{MinPoints: 2, CompleteAt: 2, Build: func(p []core.Point2D) (core.Geometry, bool) {
		return core.Rectangle{Corner1: p[0], Corner2: p[1]}, true
	}})

	Register(ToolCircle, Spec{MinPoints: 2, CompleteAt: 2, Build: func(p []core.Point2D) (core.Geometry, bool) {
		return core.Circle{Center: p[0], Radius: p[0].Distance(p[1])}, true
	}})
	Register(ToolCircleDiameter, Spec{MinPoints: 2, CompleteAt: 2, Build: func(p []core.Point2D) (core.Geometry, bool) {
		return core.Circle{Center: p[0], Radius: p[0].Distance(p[1]), DiameterMode: true}, true
	}})
	Register(ToolCircle2PDiameter, Spec{MinPoints: 2, CompleteAt: 2, Build: func(p []core.Point2D) (core.Geometry, bool) {
		return core.Circle{Center: p[0].Midpoint(p[1]), Radius: p[0].Distance(p[1]) / 2, TwoPointDiameter: true}, true
	}})

	vertices := func(closed bool) Func {
		return func(p []core.Point2D) (core.Geometry, bool) {
			out := make([]core.Point2D, len(p))
			copy(out, p)
			return core.Polyline{Vertices: out, Closed: closed}, true
		}
	}
	Register(ToolPolyline, Spec{MinPoints: 2, Build: vertices(false)})
	Register(ToolPolygon, Spec{MinPoints: 2, Build: vertices(true)})
	Register(ToolMeasureArea, Spec{MinPoints: 2, Measurement: true, Build: vertices(true)})

	Register(ToolMeasureAngle, Spec{MinPoints: 2, CompleteAt: 3, Measurement: true, Build: buildAngle})
}

// buildAngle yields a two-point segment preview for two points and the
// measured angle for three.
func buildAngle(p []core.Point2D) (core.Geometry, bool) {
	if len(p) == 2 {
		return core.Line{Start: p[0], End: p[1]}, true
	}
	return core.AngleMeasurement{
		Vertex: p[0],
		Point1: p[1],
		Point2: p[2],
		Angle:  geo.AngleDegrees(p[0], p[1], p[2]),
	}, true
}

// PreviewHint returns the display hints the angle tool attaches to its
// degenerate two-point form.
func PreviewHint(kind ToolKind, n int) core.DisplayHint {
	return core.DisplayHint{ShowEdgeDistances: kind == ToolMeasureAngle && n == 2}
}
