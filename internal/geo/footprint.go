package geo

import (
	"math"

	"github.com/nestorcad/viewercore/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// CircleSegments is the number of chords used when a circle or arc is
// flattened into a simple-features geometry.
const CircleSegments = 64

// Footprint converts an entity geometry into a simple-features geometry.
// Circles and arcs are flattened into rings/strings of CircleSegments chords.
// Closed polylines and rectangles become polygons; rings that are not valid
// polygons (self-intersecting, zero-width, collinear) come back as their
// closed outline. Shapes without two distinct points collapse to a point.
func Footprint(g core.Geometry) geom.Geometry {
	switch v := g.(type) {
	case core.Line:
		return pathGeometry([]core.Point2D{v.Start, v.End})
	case core.Rectangle:
		return ringGeometry(v.Corners())
	case core.Polyline:
		if len(v.Vertices) < 2 {
			return geom.Geometry{}
		}
		if v.Closed && len(v.Vertices) > 2 {
			return ringGeometry(v.Vertices)
		}
		return pathGeometry(v.Vertices)
	case core.Circle:
		return ringGeometry(arcPoints(v.Center, v.Radius, 0, 360))
	case core.Arc:
		sweep := math.Mod(v.EndAngle-v.StartAngle+360, 360)
		if sweep == 0 {
			sweep = 360
		}
		return pathGeometry(arcPoints(v.Center, v.Radius, v.StartAngle, sweep))
	case core.AngleMeasurement:
		return pathGeometry([]core.Point2D{v.Point1, v.Vertex, v.Point2})
	case core.Marker:
		return pointGeometry(v.At)
	case core.Opaque:
		c := v.Box.Corners()
		return ringGeometry(c[:])
	}
	return geom.Geometry{}
}

// MeasuredLength returns the length of a linear geometry (lines and open
// polylines); closed shapes report their perimeter.
func MeasuredLength(g core.Geometry) float64 {
	var pts []core.Point2D
	switch v := g.(type) {
	case core.Line:
		pts = []core.Point2D{v.Start, v.End}
	case core.Polyline:
		pts = v.Vertices
		if v.Closed {
			pts = closeRing(pts)
		}
	case core.Rectangle:
		pts = closeRing(v.Corners())
	case core.Circle:
		return 2 * math.Pi * v.Radius
	default:
		return 0
	}
	ls, err := lineString(pts)
	if err != nil {
		// fewer than two distinct points
		return 0
	}
	return ls.Length()
}

// MeasuredArea returns the enclosed area of closed shapes, 0 otherwise.
// Self-intersecting rings report their net shoelace area.
func MeasuredArea(g core.Geometry) float64 {
	switch v := g.(type) {
	case core.Polyline:
		if !v.Closed || len(v.Vertices) < 3 {
			return 0
		}
		return shoelace(v.Vertices)
	case core.Rectangle:
		return shoelace(v.Corners())
	case core.Circle:
		return math.Pi * v.Radius * v.Radius
	}
	return 0
}

func shoelace(pts []core.Point2D) float64 {
	var sum float64
	for i, p := range pts {
		sum += p.Cross(pts[(i+1)%len(pts)])
	}
	return math.Abs(sum) / 2
}

func lineString(pts []core.Point2D) (geom.LineString, error) {
	coords := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		coords = append(coords, p.X, p.Y)
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}

func pathGeometry(pts []core.Point2D) geom.Geometry {
	ls, err := lineString(pts)
	if err != nil {
		return pointGeometry(pts[0])
	}
	return ls.AsGeometry()
}

func ringGeometry(pts []core.Point2D) geom.Geometry {
	ring, err := lineString(closeRing(pts))
	if err != nil {
		return pointGeometry(pts[0])
	}
	poly, err := geom.NewPolygon([]geom.LineString{ring})
	if err != nil {
		return ring.AsGeometry()
	}
	return poly.AsGeometry()
}

// pointGeometry returns an empty geometry for non-finite coordinates.
func pointGeometry(p core.Point2D) geom.Geometry {
	pt, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}, Type: geom.DimXY})
	if err != nil {
		return geom.Geometry{}
	}
	return pt.AsGeometry()
}

// closeRing appends the first point when the list is not already closed.
func closeRing(pts []core.Point2D) []core.Point2D {
	if len(pts) == 0 || pts[0] == pts[len(pts)-1] {
		return pts
	}
	out := make([]core.Point2D, len(pts), len(pts)+1)
	copy(out, pts)
	return append(out, pts[0])
}

func arcPoints(center core.Point2D, radius, startDeg, sweepDeg float64) []core.Point2D {
	n := int(math.Ceil(CircleSegments * sweepDeg / 360))
	if n < 1 {
		n = 1
	}
	pts := make([]core.Point2D, 0, n+1)
	for i := 0; i <= n; i++ {
		rad := (startDeg + sweepDeg*float64(i)/float64(n)) * math.Pi / 180
		pts = append(pts, core.Point2D{X: center.X + radius*math.Cos(rad), Y: center.Y + radius*math.Sin(rad)})
	}
	return pts
}
