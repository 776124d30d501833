package geo

import (
	"math"

	"github.com/nestorcad/viewercore/pkg/core"
)

// epsilon is the relative tolerance of the collinearity and bounds tests.
// It is scaled by the lengths involved so the predicates behave the same at
// any drawing unit.
const epsilon = 1e-9

// orientation returns +1 for a counter-clockwise turn a→b→c, -1 for
// clockwise and 0 for collinear.
func orientation(a, b, c core.Point2D) int {
	v := b.Sub(a).Cross(c.Sub(a))
	tol := epsilon * a.Distance(b) * a.Distance(c)
	switch {
	case v > tol:
		return 1
	case v < -tol:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether c, known to be collinear with a-b, lies within
// the segment's bounding box.
func onSegment(a, b, c core.Point2D) bool {
	tol := epsilon * a.Distance(b)
	return c.X <= math.Max(a.X, b.X)+tol && c.X >= math.Min(a.X, b.X)-tol &&
		c.Y <= math.Max(a.Y, b.Y)+tol && c.Y >= math.Min(a.Y, b.Y)-tol
}

// SegmentsIntersect reports whether segments p1-p2 and q1-q2 share a point,
// including touching endpoints and collinear overlap.
func SegmentsIntersect(p1, p2, q1, q2 core.Point2D) bool {
	o1 := orientation(p1, p2, q1)
	o2 := orientation(p1, p2, q2)
	o3 := orientation(q1, q2, p1)
	o4 := orientation(q1, q2, p2)

	if o1 != o2 && o3 != o4 {
		return true
	}

	switch {
	case o1 == 0 && onSegment(p1, p2, q1):
		return true
	case o2 == 0 && onSegment(p1, p2, q2):
		return true
	case o3 == 0 && onSegment(q1, q2, p1):
		return true
	case o4 == 0 && onSegment(q1, q2, p2):
		return true
	}
	return false
}

// SegmentCrossesRect reports whether the segment a-b intersects any of the
// four edges of r.
func SegmentCrossesRect(a, b core.Point2D, r core.Rect) bool {
	c := r.Corners()
	for i := range c {
		if SegmentsIntersect(a, b, c[i], c[(i+1)%len(c)]) {
			return true
		}
	}
	return false
}

// SegmentTouchesRect reports whether any part of segment a-b lies inside r
// or on its boundary.
func SegmentTouchesRect(a, b core.Point2D, r core.Rect) bool {
	return r.Contains(a) || r.Contains(b) || SegmentCrossesRect(a, b, r)
}

// Edges returns the consecutive vertex pairs of a vertex list, plus the
// closing pair when closed and there are more than two vertices.
func Edges(vertices []core.Point2D, closed bool) [][2]core.Point2D {
	if len(vertices) < 2 {
		return nil
	}
	edges := make([][2]core.Point2D, 0, len(vertices))
	for i := 0; i+1 < len(vertices); i++ {
		edges = append(edges, [2]core.Point2D{vertices[i], vertices[i+1]})
	}
	if closed && len(vertices) > 2 {
		edges = append(edges, [2]core.Point2D{vertices[len(vertices)-1], vertices[0]})
	}
	return edges
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []core.Point2D) core.Rect {
	if len(points) == 0 {
		return core.Rect{}
	}
	r := core.Rect{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}

// Bounds returns the box of any entity geometry. ok is false for geometries
// without extent information.
func Bounds(g core.Geometry) (r core.Rect, ok bool) {
	switch v := g.(type) {
	case core.Bounded:
		return v.Bounds(), true
	case core.Line:
		return BoundingBox([]core.Point2D{v.Start, v.End}), true
	case core.Rectangle:
		return core.RectFromPoints(v.Corner1, v.Corner2), true
	case core.Polyline:
		if len(v.Vertices) == 0 {
			return core.Rect{}, false
		}
		return BoundingBox(v.Vertices), true
	case core.AngleMeasurement:
		return BoundingBox([]core.Point2D{v.Point1, v.Vertex, v.Point2}), true
	}
	return core.Rect{}, false
}
