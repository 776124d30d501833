package marquee

import (
	"testing"

	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var box = core.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

func entity(id string, g core.Geometry) core.Entity {
	return core.Entity{ID: core.EntityID(id), Layer: "0", Visible: true, Geometry: g}
}

func line(x1, y1, x2, y2 float64) core.Line {
	return core.Line{Start: core.Pt(x1, y1), End: core.Pt(x2, y2)}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		geometry core.Geometry
		window   bool
		crossing bool
	}{
		{"line inside", line(1, 1, 9, 9), true, true},
		{"line one endpoint inside", line(5, 5, 15, 5), false, true},
		{"line crossing boundary, endpoints outside", line(-5, 5, 15, 5), false, true},
		{"line outside", line(11, 11, 20, 20), false, false},
		{"line near miss of corner", line(9, 12, 12, 9), false, false},
		{"line on boundary", line(0, 0, 10, 0), true, true},
		{"polyline inside", core.Polyline{Vertices: []core.Point2D{core.Pt(1, 1), core.Pt(2, 8), core.Pt(8, 2)}}, true, true},
		{"polyline with vertex outside", core.Polyline{Vertices: []core.Point2D{core.Pt(1, 1), core.Pt(20, 1)}}, false, true},
		{"closed polyline crossing only on closing edge", core.Polyline{
			Vertices: []core.Point2D{core.Pt(-5, 5), core.Pt(-5, 20), core.Pt(20, 20), core.Pt(20, 5)},
			Closed:   true,
		}, false, true},
		{"open polyline with same vertices", core.Polyline{
			Vertices: []core.Point2D{core.Pt(-5, 5), core.Pt(-5, 20), core.Pt(20, 20), core.Pt(20, 5)},
		}, false, false},
		{"rectangle entity enclosing marquee", core.Rectangle{Corner1: core.Pt(-1, -1), Corner2: core.Pt(11, 11)}, false, false},
		{"rectangle entity inside", core.Rectangle{Corner1: core.Pt(8, 8), Corner2: core.Pt(2, 2)}, true, true},
		{"rectangle entity straddling", core.Rectangle{Corner1: core.Pt(5, 5), Corner2: core.Pt(15, 15)}, false, true},
		{"circle inside", core.Circle{Center: core.Pt(5, 5), Radius: 2}, true, true},
		{"circle overlapping", core.Circle{Center: core.Pt(10, 5), Radius: 2}, false, true},
		{"circle bbox overlaps corner only", core.Circle{Center: core.Pt(11.5, 11.5), Radius: 2}, false, true},
		{"circle outside", core.Circle{Center: core.Pt(20, 20), Radius: 2}, false, false},
		{"arc inside", core.Arc{Center: core.Pt(5, 5), Radius: 2, StartAngle: 0, EndAngle: 90}, true, true},
		{"opaque bounds overlapping", core.Opaque{TypeName: "text", Box: core.Rect{MinX: 8, MinY: 8, MaxX: 12, MaxY: 9}}, false, true},
		{"angle inside", core.AngleMeasurement{Vertex: core.Pt(5, 5), Point1: core.Pt(6, 5), Point2: core.Pt(5, 6)}, true, true},
		{"single vertex polyline inside", core.Polyline{Vertices: []core.Point2D{core.Pt(3, 3)}}, true, true},
		{"single vertex polyline outside", core.Polyline{Vertices: []core.Point2D{core.Pt(30, 3)}}, false, false},
		{"empty polyline", core.Polyline{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.window, Matches(tt.geometry, box, Window), "window")
			assert.Equal(t, tt.crossing, Matches(tt.geometry, box, Crossing), "crossing")
		})
	}
}

func TestMatches_WindowImpliesCrossing(t *testing.T) {
	geometries := []core.Geometry{
		line(1, 1, 2, 2),
		core.Polyline{Vertices: []core.Point2D{core.Pt(1, 1), core.Pt(3, 3)}, Closed: true},
		core.Rectangle{Corner1: core.Pt(1, 1), Corner2: core.Pt(2, 2)},
		core.Circle{Center: core.Pt(5, 5), Radius: 1},
	}
	for _, g := range geometries {
		require.True(t, Matches(g, box, Window))
		assert.True(t, Matches(g, box, Crossing))
	}
}

func TestSelectWorld_ExcludesHidden(t *testing.T) {
	hidden := entity("hidden", line(1, 1, 2, 2))
	hidden.Visible = false
	onHiddenLayer := entity("off", line(1, 1, 2, 2))
	onHiddenLayer.Layer = "off"

	scene := core.Scene{
		Layers: []core.Layer{{Name: "0", Visible: true}, {Name: "off", Visible: false}},
		Entities: []core.Entity{
			entity("a", line(1, 1, 2, 2)),
			hidden,
			onHiddenLayer,
			entity("b", core.Circle{Center: core.Pt(5, 5), Radius: 1}),
			{ID: "nogeom", Layer: "0", Visible: true},
		},
	}

	assert.Equal(t, []core.EntityID{"a", "b"}, SelectWorld(box, scene, Crossing))
}

func TestSelect_ConvertsEachAnchor(t *testing.T) {
	scene := core.Scene{Entities: []core.Entity{
		entity("in", line(1, 1, 2, 2)),
		entity("out", line(30, 30, 40, 40)),
	}}
	vp := core.Viewport{Width: 200, Height: 100}
	tf := core.ViewTransform{Scale: 4, OffsetX: 10, OffsetY: 20}

	// screen anchors of world (0,0) and (10,10)
	a := tf.WorldToScreen(core.Pt(0, 0), vp)
	b := tf.WorldToScreen(core.Pt(10, 10), vp)
	assert.Equal(t, core.Pt(10, 80), a)
	assert.Equal(t, core.Pt(50, 40), b)

	r := WorldRect(b, a, tf, vp)
	assert.InDelta(t, 0, r.MinX, 1e-9)
	assert.InDelta(t, 0, r.MinY, 1e-9)
	assert.InDelta(t, 10, r.MaxX, 1e-9)
	assert.InDelta(t, 10, r.MaxY, 1e-9)

	assert.Equal(t, []core.EntityID{"in"}, Select(a, b, tf, vp, scene, Window))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Crossing")
	require.NoError(t, err)
	assert.Equal(t, Crossing, m)

	m, err = ParseMode("window")
	require.NoError(t, err)
	assert.Equal(t, Window, m)

	_, err = ParseMode("lasso")
	assert.Error(t, err)
}

func TestModeFromDrag(t *testing.T) {
	assert.Equal(t, Window, ModeFromDrag(core.Pt(0, 0), core.Pt(5, 5)))
	assert.Equal(t, Crossing, ModeFromDrag(core.Pt(5, 0), core.Pt(0, 5)))
}
