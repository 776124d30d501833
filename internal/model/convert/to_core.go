package convert

import (
	"fmt"
	"slices"

	"github.com/nestorcad/viewercore/internal/model"
	"github.com/nestorcad/viewercore/pkg/core"
)

// LayerToCore converts a GORM model.Layer to a core.Layer.
func LayerToCore(l model.Layer) core.Layer {
	return core.Layer{
		Name:    l.Name,
		Color:   l.Color,
		Visible: l.Visible,
		Locked:  l.Locked,
	}
}

// EntityToCore converts a GORM model.Entity to a core.Entity.
func EntityToCore(e model.Entity) (core.Entity, error) {
	out := core.Entity{
		ID:          core.EntityID(e.EntityID),
		Layer:       e.Layer,
		Color:       e.Color,
		Visible:     e.Visible,
		Measurement: e.Measurement,
	}
	g, err := core.DecodeGeometry(core.Kind(e.Type), e.Geometry)
	if err != nil {
		return core.Entity{}, fmt.Errorf("entity %s: %w", e.EntityID, err)
	}
	out.Geometry = g
	return out, nil
}

// RowsToScene assembles a scene from its rows. Layers and entities are
// ordered by Position regardless of the order they were loaded in.
func RowsToScene(level model.Level, layers []model.Layer, entities []model.Entity) (core.Scene, error) {
	layers = slices.Clone(layers)
	entities = slices.Clone(entities)
	slices.SortStableFunc(layers, func(a, b model.Layer) int { return a.Position - b.Position })
	slices.SortStableFunc(entities, func(a, b model.Entity) int { return a.Position - b.Position })

	s := core.Scene{
		LevelID:  level.ID,
		Version:  level.Version,
		EPSG:     level.EPSG,
		Layers:   make([]core.Layer, 0, len(layers)),
		Entities: make([]core.Entity, 0, len(entities)),
	}
	for _, l := range layers {
		s.Layers = append(s.Layers, LayerToCore(l))
	}
	for _, row := range entities {
		e, err := EntityToCore(row)
		if err != nil {
			return core.Scene{}, err
		}
		s.Entities = append(s.Entities, e)
	}
	return s, nil
}
