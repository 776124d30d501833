package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene() Scene {
	return Scene{
		LevelID: "L1",
		Layers: []Layer{
			{Name: "0", Visible: true},
			{Name: "walls", Color: "red", Visible: true},
			{Name: "doors", Color: "red", Visible: false},
			{Name: "grid", Color: "blue", Visible: true},
		},
		Entities: []Entity{
			{ID: "a", Layer: "walls", Visible: true, Geometry: Line{Start: Pt(0, 0), End: Pt(1, 1)}},
			{ID: "b", Layer: "doors", Visible: true, Geometry: Line{Start: Pt(0, 0), End: Pt(2, 2)}},
			{ID: "c", Layer: "walls", Visible: false, Geometry: Line{Start: Pt(0, 0), End: Pt(3, 3)}},
			{ID: "d", Layer: "grid", Visible: true, Geometry: Polyline{Vertices: []Point2D{Pt(0, 0), Pt(1, 0)}}},
		},
	}
}

func TestScene_WithEntity_DoesNotMutateReceiver(t *testing.T) {
	s := testScene()
	next := s.WithEntity(Entity{ID: "e", Layer: "new", Visible: true, Geometry: Line{}})

	assert.Len(t, s.Entities, 4)
	assert.Len(t, next.Entities, 5)
	assert.Equal(t, s.Version+1, next.Version)

	layer, ok := next.Layer("new")
	require.True(t, ok, "missing layer should be created")
	assert.True(t, layer.Visible)
	_, ok = s.Layer("new")
	assert.False(t, ok)
}

func TestScene_Clone_CopiesPolylineVertices(t *testing.T) {
	s := testScene()
	c := s.Clone()
	c.Entities[3].Geometry.(Polyline).Vertices[0] = Pt(99, 99)

	assert.Equal(t, Pt(0, 0), s.Entities[3].Geometry.(Polyline).Vertices[0])
}

func TestScene_VisibleOnLayers(t *testing.T) {
	s := testScene()

	assert.Equal(t, []EntityID{"a"}, s.VisibleOnLayers("walls"))
	assert.Empty(t, s.VisibleOnLayers("doors"))
	assert.Equal(t, []EntityID{"a", "d"}, s.VisibleOnLayers("walls", "grid"))
}

func TestScene_ColorGroupLayers(t *testing.T) {
	s := testScene()

	assert.Equal(t, []string{"walls", "doors"}, s.ColorGroupLayers("red"))
	assert.Equal(t, []string{"grid"}, s.ColorGroupLayers("blue"))
	assert.Empty(t, s.ColorGroupLayers("green"))
}

func TestScene_LayerVisible_UnknownIsVisible(t *testing.T) {
	assert.True(t, testScene().LayerVisible("missing"))
}

func TestIDSequence_ObserveSkipsExisting(t *testing.T) {
	seq := NewIDSequence(0)
	assert.Equal(t, EntityID("entity_1"), seq.Next())

	seq.Observe("entity_10")
	seq.Observe("entity_3")
	seq.Observe("imported-handle")

	assert.Equal(t, EntityID("entity_11"), seq.Next())
}

func TestNewScene(t *testing.T) {
	s := NewScene("L9")
	assert.Equal(t, "L9", s.LevelID)
	assert.Zero(t, s.Version)
	require.Len(t, s.Layers, 1)
	assert.Equal(t, Layer{Name: DefaultLayer, Visible: true}, s.Layers[0])
	assert.Empty(t, s.Entities)
}
