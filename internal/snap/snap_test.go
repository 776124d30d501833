package snap

import (
	"errors"
	"testing"

	"github.com/nestorcad/viewercore/internal/builder"
	"github.com/nestorcad/viewercore/internal/drawing"
	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scenes struct {
	scene core.Scene
	err   error
}

func (s *scenes) GetScene(string) (core.Scene, error) { return s.scene, s.err }

func (s *scenes) SetScene(_ string, scene core.Scene) error {
	s.scene = scene
	return nil
}

func testScene() core.Scene {
	return core.Scene{
		Layers: []core.Layer{{Name: "0", Visible: true}, {Name: "off", Visible: false}},
		Entities: []core.Entity{
			{ID: "a", Layer: "0", Visible: true, Geometry: core.Line{Start: core.Pt(0, 0), End: core.Pt(10, 0)}},
			{ID: "b", Layer: "0", Visible: true, Geometry: core.Circle{Center: core.Pt(20, 20), Radius: 5}},
			{ID: "c", Layer: "off", Visible: true, Geometry: core.Line{Start: core.Pt(30, 30), End: core.Pt(40, 40)}},
		},
	}
}

func TestFindSnapPoint(t *testing.T) {
	r := &Resolver{Scenes: &scenes{scene: testScene()}, Transform: core.IdentityTransform}

	tests := []struct {
		name  string
		x, y  float64
		found bool
		want  core.Point2D
	}{
		{"vertex", 9, 1, true, core.Pt(10, 0)},
		{"midpoint", 5.5, 0.5, true, core.Pt(5, 0)},
		{"circle center", 21, 19, true, core.Pt(20, 20)},
		{"nearest wins", 3, 0, true, core.Pt(5, 0)},
		{"hidden layer ignored", 30.5, 30.5, false, core.Point2D{}},
		{"nothing in aperture", 100, 100, false, core.Point2D{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.FindSnapPoint(tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.found, res.Found)
			if tt.found {
				assert.Equal(t, tt.want, res.Point)
			}
		})
	}
}

func TestFindSnapPoint_ApertureScalesWithZoom(t *testing.T) {
	r := &Resolver{Scenes: &scenes{scene: testScene()}, Aperture: 10}

	r.Transform = core.ViewTransform{Scale: 1}
	res, err := r.FindSnapPoint(10, 8)
	require.NoError(t, err)
	assert.True(t, res.Found)

	r.Transform = core.ViewTransform{Scale: 4}
	res, err = r.FindSnapPoint(10, 8)
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestFindSnapPoint_Errors(t *testing.T) {
	_, err := (&Resolver{}).FindSnapPoint(0, 0)
	assert.ErrorIs(t, err, ErrNoScenes)

	boom := errors.New("store offline")
	_, err = (&Resolver{Scenes: &scenes{err: boom}}).FindSnapPoint(0, 0)
	assert.ErrorIs(t, err, boom)
}

func TestResolver_DrivesDrawing(t *testing.T) {
	store := &scenes{scene: testScene()}
	m := drawing.New(drawing.Dependencies{
		Store: store,
		Snap:  &Resolver{Scenes: store, Transform: core.IdentityTransform},
	})
	m.StartDrawing(builder.ToolLine)
	m.AddPoint(core.Pt(9.5, 0.5), core.IdentityTransform)
	e, ok := m.AddPoint(core.Pt(100, 100), core.IdentityTransform)
	require.True(t, ok)
	assert.Equal(t, core.Line{Start: core.Pt(10, 0), End: core.Pt(100, 100)}, e.Geometry)
}
