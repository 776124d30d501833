package geo

import (
	"testing"

	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, q1, q2 core.Point2D
		want           bool
	}{
		{"proper cross", core.Pt(0, 0), core.Pt(10, 10), core.Pt(0, 10), core.Pt(10, 0), true},
		{"parallel apart", core.Pt(0, 0), core.Pt(10, 0), core.Pt(0, 1), core.Pt(10, 1), false},
		{"touching endpoint", core.Pt(0, 0), core.Pt(5, 5), core.Pt(5, 5), core.Pt(10, 0), true},
		{"collinear overlap", core.Pt(0, 0), core.Pt(10, 0), core.Pt(5, 0), core.Pt(15, 0), true},
		{"collinear disjoint", core.Pt(0, 0), core.Pt(4, 0), core.Pt(5, 0), core.Pt(15, 0), false},
		{"T junction", core.Pt(0, 0), core.Pt(10, 0), core.Pt(5, -5), core.Pt(5, 0), true},
		{"near miss", core.Pt(0, 0), core.Pt(10, 0), core.Pt(5, 1), core.Pt(5, 0.001), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentsIntersect(tt.p1, tt.p2, tt.q1, tt.q2))
			assert.Equal(t, tt.want, SegmentsIntersect(tt.q1, tt.q2, tt.p1, tt.p2), "symmetric")

			// the answer must not depend on the drawing unit
			for _, k := range []float64{1e-7, 1e5} {
				p1, p2, q1, q2 := scaled(tt.p1, k), scaled(tt.p2, k), scaled(tt.q1, k), scaled(tt.q2, k)
				assert.Equal(t, tt.want, SegmentsIntersect(p1, p2, q1, q2), "scale %g", k)
			}
		})
	}
}

func scaled(p core.Point2D, k float64) core.Point2D {
	return core.Pt(p.X*k, p.Y*k)
}

func TestSegmentsIntersect_SubMicroNearMiss(t *testing.T) {
	// 0.1 nm off a 1 µm segment; an absolute tolerance of 1e-9 would call
	// this collinear and touching
	p1, p2 := core.Pt(0, 0), core.Pt(1e-6, 0)
	q1, q2 := core.Pt(5e-7, 1e-7), core.Pt(5e-7, 1e-10)

	assert.False(t, SegmentsIntersect(p1, p2, q1, q2))
	assert.True(t, SegmentsIntersect(p1, p2, q1, core.Pt(5e-7, -1e-10)))
}

func TestSegmentCrossesRect(t *testing.T) {
	r := core.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

	assert.True(t, SegmentCrossesRect(core.Pt(-5, 5), core.Pt(15, 5), r), "passes through")
	assert.True(t, SegmentCrossesRect(core.Pt(5, 5), core.Pt(15, 5), r), "exits one side")
	assert.False(t, SegmentCrossesRect(core.Pt(2, 2), core.Pt(8, 8), r), "fully inside touches no edge")
	assert.False(t, SegmentCrossesRect(core.Pt(20, 0), core.Pt(20, 10), r), "outside")
	assert.True(t, SegmentTouchesRect(core.Pt(2, 2), core.Pt(8, 8), r))
}

func TestEdges(t *testing.T) {
	pts := []core.Point2D{core.Pt(0, 0), core.Pt(1, 0), core.Pt(1, 1)}

	assert.Len(t, Edges(pts, false), 2)
	closed := Edges(pts, true)
	assert.Len(t, closed, 3)
	assert.Equal(t, [2]core.Point2D{core.Pt(1, 1), core.Pt(0, 0)}, closed[2])
	assert.Len(t, Edges(pts[:2], true), 1, "two vertices never get a closing edge")
	assert.Nil(t, Edges(pts[:1], false))
}

func TestBoundingBox(t *testing.T) {
	r := BoundingBox([]core.Point2D{core.Pt(3, -1), core.Pt(-2, 4), core.Pt(0, 0)})
	assert.Equal(t, core.Rect{MinX: -2, MinY: -1, MaxX: 3, MaxY: 4}, r)
	assert.Equal(t, core.Rect{}, BoundingBox(nil))
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name string
		g    core.Geometry
		want core.Rect
		ok   bool
	}{
		{"line", core.Line{Start: core.Pt(3, 1), End: core.Pt(0, 4)}, core.Rect{MinX: 0, MinY: 1, MaxX: 3, MaxY: 4}, true},
		{"rectangle", core.Rectangle{Corner1: core.Pt(5, 5), Corner2: core.Pt(1, 2)}, core.Rect{MinX: 1, MinY: 2, MaxX: 5, MaxY: 5}, true},
		{"circle", core.Circle{Center: core.Pt(0, 0), Radius: 2}, core.Rect{MinX: -2, MinY: -2, MaxX: 2, MaxY: 2}, true},
		{"angle", core.AngleMeasurement{Vertex: core.Pt(0, 0), Point1: core.Pt(4, 0), Point2: core.Pt(0, 3)}, core.Rect{MaxX: 4, MaxY: 3}, true},
		{"empty polyline", core.Polyline{}, core.Rect{}, false},
		{"nil", nil, core.Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Bounds(tt.g)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
