// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/nestorcad/viewercore/internal/geo"
	"github.com/nestorcad/viewercore/internal/model"
	"github.com/nestorcad/viewercore/pkg/core"
	"gorm.io/datatypes"
)

// CoreToLevel converts the scene header to a GORM model.Level.
func CoreToLevel(s core.Scene) model.Level {
	return model.Level{
		ID:      s.LevelID,
		Version: s.Version,
		EPSG:    s.EPSG,
	}
}

// CoreToLayers converts the scene layers, keeping their order in Position.
func CoreToLayers(s core.Scene) []model.Layer {
	out := make([]model.Layer, 0, len(s.Layers))
	for i, l := range s.Layers {
		out = append(out, model.Layer{
			LevelID:  s.LevelID,
			Position: i,
			Name:     l.Name,
			Color:    l.Color,
			Visible:  l.Visible,
			Locked:   l.Locked,
		})
	}
	return out
}

// CoreToEntity converts a core.Entity to a GORM model.Entity. The footprint
// and box columns are derived from the geometry.
func CoreToEntity(levelID string, position int, e core.Entity) (model.Entity, error) {
	geometry, err := geometryToJSON(e.Geometry)
	if err != nil {
		return model.Entity{}, fmt.Errorf("entity %s: %w", e.ID, err)
	}
	row := model.Entity{
		LevelID:     levelID,
		EntityID:    string(e.ID),
		Position:    position,
		Type:        string(e.Type()),
		Layer:       e.Layer,
		Color:       e.Color,
		Visible:     e.Visible,
		Measurement: e.Measurement,
		Geometry:    geometry,
	}
	if e.Geometry != nil {
		row.Footprint = geo.Footprint(e.Geometry).AsText()
	}
	if r, ok := geo.Bounds(e.Geometry); ok {
		row.MinX, row.MinY, row.MaxX, row.MaxY = r.MinX, r.MinY, r.MaxX, r.MaxY
	}
	return row, nil
}

// CoreToEntities converts every entity of the scene in order.
func CoreToEntities(s core.Scene) ([]model.Entity, error) {
	out := make([]model.Entity, 0, len(s.Entities))
	for i, e := range s.Entities {
		row, err := CoreToEntity(s.LevelID, i, e)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// geometryToJSON converts a geometry to datatypes.JSON for DB storage.
func geometryToJSON(g core.Geometry) (datatypes.JSON, error) {
	if g == nil {
		return datatypes.JSON("null"), nil
	}
	data, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
