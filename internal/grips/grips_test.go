package grips

import (
	"testing"

	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(gs []Grip) []core.Point2D {
	out := make([]core.Point2D, len(gs))
	for i, g := range gs {
		out[i] = g.Point
	}
	return out
}

func TestGrips_Line(t *testing.T) {
	e := core.Entity{ID: "l", Geometry: core.Line{Start: core.Pt(0, 0), End: core.Pt(4, 2)}}
	gs := Grips(e, DefaultSettings())
	require.Len(t, gs, 3)
	assert.Equal(t, Grip{Index: 0, Kind: Vertex, Point: core.Pt(0, 0)}, gs[0])
	assert.Equal(t, Grip{Index: 1, Kind: Vertex, Point: core.Pt(4, 2)}, gs[1])
	assert.Equal(t, Grip{Index: 2, Kind: EdgeMidpoint, Point: core.Pt(2, 1)}, gs[2])
}

func TestGrips_Rectangle(t *testing.T) {
	e := core.Entity{Geometry: core.Rectangle{Corner1: core.Pt(0, 0), Corner2: core.Pt(2, 2)}}
	gs := Grips(e, DefaultSettings())
	require.Len(t, gs, 8)
	assert.Equal(t, []core.Point2D{
		core.Pt(0, 0), core.Pt(2, 0), core.Pt(2, 2), core.Pt(0, 2),
		core.Pt(1, 0), core.Pt(2, 1), core.Pt(1, 2), core.Pt(0, 1),
	}, points(gs))
}

func TestGrips_Polyline(t *testing.T) {
	vs := []core.Point2D{core.Pt(0, 0), core.Pt(2, 0), core.Pt(2, 2)}
	open := Grips(core.Entity{Geometry: core.Polyline{Vertices: vs}}, DefaultSettings())
	closed := Grips(core.Entity{Geometry: core.Polyline{Vertices: vs, Closed: true}}, DefaultSettings())
	assert.Len(t, open, 5)
	assert.Len(t, closed, 6)
	assert.Equal(t, core.Pt(1, 1), closed[5].Point)
}

func TestGrips_MultiGripEditDisabled(t *testing.T) {
	s := DefaultSettings()
	s.MultiGripEdit = false
	gs := Grips(core.Entity{Geometry: core.Rectangle{Corner1: core.Pt(0, 0), Corner2: core.Pt(2, 2)}}, s)
	assert.Len(t, gs, 4)
	for _, g := range gs {
		assert.Equal(t, Vertex, g.Kind)
	}
}

func TestGrips_CircleAndAngle(t *testing.T) {
	c := Grips(core.Entity{Geometry: core.Circle{Center: core.Pt(1, 1), Radius: 2}}, DefaultSettings())
	assert.Equal(t, []core.Point2D{core.Pt(1, 1), core.Pt(3, 1), core.Pt(1, 3), core.Pt(-1, 1), core.Pt(1, -1)}, points(c))

	a := Grips(core.Entity{Geometry: core.AngleMeasurement{Vertex: core.Pt(0, 0), Point1: core.Pt(2, 0), Point2: core.Pt(0, 2)}}, DefaultSettings())
	assert.Equal(t, []core.Point2D{core.Pt(0, 0), core.Pt(2, 0), core.Pt(0, 2), core.Pt(1, 0), core.Pt(0, 1)}, points(a))
}

func TestGrips_MaxPerEntity(t *testing.T) {
	vs := make([]core.Point2D, 40)
	for i := range vs {
		vs[i] = core.Pt(float64(i), 0)
	}
	s := DefaultSettings()
	gs := Grips(core.Entity{Geometry: core.Polyline{Vertices: vs}}, s)
	assert.Len(t, gs, s.MaxGripsPerEntity)

	s.MaxGripsPerEntity = 0
	assert.Len(t, Grips(core.Entity{Geometry: core.Polyline{Vertices: vs}}, s), 79)
}

func TestGrips_NoHandles(t *testing.T) {
	assert.Empty(t, Grips(core.Entity{Geometry: core.Marker{At: core.Pt(1, 1), Size: 1}}, DefaultSettings()))
	assert.Empty(t, Grips(core.Entity{}, DefaultSettings()))
}

func TestHitTest(t *testing.T) {
	e := core.Entity{ID: "l", Geometry: core.Line{Start: core.Pt(0, 0), End: core.Pt(10, 0)}}
	vp := core.Viewport{Width: 100, Height: 100}
	tf := core.ViewTransform{Scale: 2}

	// world (10,0) lands on screen (20,100)
	g, ok := HitTest(core.Pt(26, 100), e, tf, vp, DefaultSettings(), 1)
	require.True(t, ok)
	assert.Equal(t, 1, g.Index)

	_, ok = HitTest(core.Pt(29, 100), e, tf, vp, DefaultSettings(), 1)
	assert.False(t, ok)

	g, ok = HitTest(core.Pt(29, 100), e, tf, vp, DefaultSettings(), 2)
	require.True(t, ok, "device pixel ratio widens the aperture")
	assert.Equal(t, 1, g.Index)

	g, ok = HitTest(core.Pt(10, 98), e, tf, vp, DefaultSettings(), 1)
	require.True(t, ok)
	assert.Equal(t, EdgeMidpoint, g.Kind)
}

func TestStateOf(t *testing.T) {
	a := Ref{EntityID: "e1", GripIndex: 0}
	b := Ref{EntityID: "e1", GripIndex: 1}
	c := Ref{EntityID: "e2", GripIndex: 0}

	var in Interaction
	assert.Equal(t, Cold, StateOf(a, in))

	in.SetHovered(a)
	assert.Equal(t, Warm, StateOf(a, in))
	assert.Equal(t, Cold, StateOf(b, in))

	in.SetActive(a)
	assert.Equal(t, Hot, StateOf(a, in), "active wins over hovered")

	in.SetHovered(c)
	assert.Equal(t, Warm, StateOf(c, in))
	assert.Equal(t, Hot, StateOf(a, in))

	in.Clear()
	_, hovered := in.Hovered()
	_, active := in.Active()
	assert.False(t, hovered)
	assert.False(t, active)
	assert.Equal(t, "cold", StateOf(a, in).String())
}

func TestInteraction_ValueSemantics(t *testing.T) {
	var in Interaction
	r := Ref{EntityID: "e1", GripIndex: 2}
	in.SetHovered(r)
	r.GripIndex = 3
	h, ok := in.Hovered()
	require.True(t, ok)
	assert.Equal(t, 2, h.GripIndex)
}
