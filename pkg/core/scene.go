// pkg/core/scene.go
package core

import "slices"

// Layer is a named entity group. Layers sharing a Color form a color group.
type Layer struct {
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

// Scene is one level's full content. Scenes are treated as immutable
// snapshots: every With* method returns a new value and leaves the receiver
// untouched.
type Scene struct {
	LevelID  string   `json:"levelId"`
	Version  uint64   `json:"version"`
	EPSG     int      `json:"epsg,omitempty"`
	Layers   []Layer  `json:"layers"`
	Entities []Entity `json:"entities"`
}

// NewScene returns an empty scene for a level holding only the default
// layer.
func NewScene(levelID string) Scene {
	return Scene{
		LevelID:  levelID,
		Layers:   []Layer{{Name: DefaultLayer, Visible: true}},
		Entities: []Entity{},
	}
}

// Clone returns a deep copy of the scene.
func (s Scene) Clone() Scene {
	out := s
	out.Layers = slices.Clone(s.Layers)
	out.Entities = make([]Entity, len(s.Entities))
	for i, e := range s.Entities {
		// geometries are values except Polyline's vertex slice
		if p, ok := e.Geometry.(Polyline); ok {
			e.Geometry = Polyline{Vertices: slices.Clone(p.Vertices), Closed: p.Closed}
		}
		out.Entities[i] = e
	}
	return out
}

// WithEntity returns a new snapshot with e appended. If e's layer does not
// exist yet it is created visible.
func (s Scene) WithEntity(e Entity) Scene {
	out := s.Clone()
	if _, ok := out.Layer(e.Layer); !ok {
		out.Layers = append(out.Layers, Layer{Name: e.Layer, Visible: true})
	}
	out.Entities = append(out.Entities, e)
	out.Version++
	return out
}

// WithEntities returns a new snapshot where every entity is passed through fn.
func (s Scene) WithEntities(fn func(Entity) Entity) Scene {
	out := s.Clone()
	for i, e := range out.Entities {
		out.Entities[i] = fn(e)
	}
	out.Version++
	return out
}

// Layer looks up a layer by name.
func (s Scene) Layer(name string) (Layer, bool) {
	for _, l := range s.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

// LayerVisible reports whether a layer is shown. Unknown layers are visible.
func (s Scene) LayerVisible(name string) bool {
	l, ok := s.Layer(name)
	return !ok || l.Visible
}

// IsShown reports whether an entity is visible and sits on a visible layer.
func (s Scene) IsShown(e Entity) bool {
	return e.Visible && s.LayerVisible(e.Layer)
}

// Entity looks up an entity by id.
func (s Scene) Entity(id EntityID) (Entity, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// VisibleOnLayers returns the ids of shown entities on any of the layers, in
// scene order.
func (s Scene) VisibleOnLayers(layers ...string) []EntityID {
	var ids []EntityID
	for _, e := range s.Entities {
		if slices.Contains(layers, e.Layer) && s.IsShown(e) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// ColorGroupLayers returns the names of layers whose color equals group.
func (s Scene) ColorGroupLayers(group string) []string {
	var names []string
	for _, l := range s.Layers {
		if l.Color == group {
			names = append(names, l.Name)
		}
	}
	return names
}
