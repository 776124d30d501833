package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityJSON_RoundTripKeepsVariant(t *testing.T) {
	in := Entity{
		ID:          "entity_7",
		Layer:       "0",
		Visible:     true,
		Measurement: true,
		Geometry:    Polyline{Vertices: []Point2D{Pt(0, 0), Pt(4, 0), Pt(4, 3)}, Closed: true},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"polyline"`)

	var out Entity
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestEntityJSON_WithoutGeometry(t *testing.T) {
	in := Entity{ID: "entity_9", Layer: DefaultLayer, Visible: true}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"entity_9","type":"","layer":"0","visible":true,"geometry":null}`, string(data))

	var out Entity
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
	assert.Nil(t, out.Geometry)

	var scene Scene
	require.NoError(t, json.Unmarshal([]byte(`{"levelId":"L","entities":[{"id":"entity_2","type":"","geometry":null}]}`), &scene))
	require.Len(t, scene.Entities, 1)
	assert.Nil(t, scene.Entities[0].Geometry)
}

func TestEntityJSON_UnknownType(t *testing.T) {
	var e Entity
	err := json.Unmarshal([]byte(`{"id":"x","type":"spline","geometry":{}}`), &e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown geometry type")
}

func TestArcBounds(t *testing.T) {
	tests := []struct {
		name string
		arc  Arc
		want Rect
	}{
		{
			name: "first quadrant",
			arc:  Arc{Center: Pt(0, 0), Radius: 1, StartAngle: 0, EndAngle: 90},
			want: Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1},
		},
		{
			name: "upper half",
			arc:  Arc{Center: Pt(0, 0), Radius: 2, StartAngle: 0, EndAngle: 180},
			want: Rect{MinX: -2, MinY: 0, MaxX: 2, MaxY: 2},
		},
		{
			name: "wraps through zero",
			arc:  Arc{Center: Pt(0, 0), Radius: 1, StartAngle: 270, EndAngle: 90},
			want: Rect{MinX: 0, MinY: -1, MaxX: 1, MaxY: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.arc.Bounds()
			assert.InDelta(t, tt.want.MinX, got.MinX, 1e-9)
			assert.InDelta(t, tt.want.MinY, got.MinY, 1e-9)
			assert.InDelta(t, tt.want.MaxX, got.MaxX, 1e-9)
			assert.InDelta(t, tt.want.MaxY, got.MaxY, 1e-9)
		})
	}
}

func TestViewTransform_RoundTrip(t *testing.T) {
	vt := ViewTransform{Scale: 2.5, OffsetX: 40, OffsetY: -10}
	vp := Viewport{Width: 800, Height: 600}

	world := Pt(12.5, -3)
	screen := vt.WorldToScreen(world, vp)
	back := vt.ScreenToWorld(screen, vp)

	assert.InDelta(t, world.X, back.X, 1e-9)
	assert.InDelta(t, world.Y, back.Y, 1e-9)
}

func TestEntity_Translated(t *testing.T) {
	e := Entity{ID: "r", Geometry: Rectangle{Corner1: Pt(0, 0), Corner2: Pt(2, 1)}}
	moved := e.Translated(1, -1)

	assert.Equal(t, Rectangle{Corner1: Pt(1, -1), Corner2: Pt(3, 0)}, moved.Geometry)
	assert.Equal(t, Rectangle{Corner1: Pt(0, 0), Corner2: Pt(2, 1)}, e.Geometry)
}
