// pkg/core/entity.go
package core

import (
	"encoding/json"
	"fmt"
	"math"
)

// DefaultLayer is the layer every constructed entity lands on.
const DefaultLayer = "0"

// EntityID identifies an entity within a scene.
type EntityID string

// Kind is the discriminator of the Geometry variant.
type Kind string

const (
	KindLine      Kind = "line"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindArc       Kind = "arc"
	KindPolyline  Kind = "polyline"
	KindAngle     Kind = "angle-measurement"
	KindMarker    Kind = "marker"
	KindOpaque    Kind = "opaque"
)

// Geometry is the shape carried by an entity.
type Geometry interface {
	Kind() Kind
	Translate(dx, dy float64) Geometry
}

// Bounded is implemented by geometries that expose an axis-aligned box.
type Bounded interface {
	Bounds() Rect
}

// Entity is a drawable object owned by the scene store.
type Entity struct {
	ID          EntityID
	Layer       string
	Color       string
	Visible     bool
	Measurement bool
	Geometry    Geometry
}

// Type returns the geometry kind, or "" when the entity has no geometry.
func (e Entity) Type() Kind {
	if e.Geometry == nil {
		return ""
	}
	return e.Geometry.Kind()
}

// Translated returns a copy of e moved by (dx, dy).
func (e Entity) Translated(dx, dy float64) Entity {
	if e.Geometry != nil {
		e.Geometry = e.Geometry.Translate(dx, dy)
	}
	return e
}

// Line is a straight segment.
type Line struct {
	Start Point2D `json:"start"`
	End   Point2D `json:"end"`
}

func (Line) Kind() Kind { return KindLine }

func (l Line) Translate(dx, dy float64) Geometry {
	d := Pt(dx, dy)
	return Line{Start: l.Start.Add(d), End: l.End.Add(d)}
}

// Rectangle stores two opposite corners exactly as clicked.
type Rectangle struct {
	Corner1 Point2D `json:"corner1"`
	Corner2 Point2D `json:"corner2"`
}

func (Rectangle) Kind() Kind { return KindRectangle }

func (r Rectangle) Translate(dx, dy float64) Geometry {
	d := Pt(dx, dy)
	return Rectangle{Corner1: r.Corner1.Add(d), Corner2: r.Corner2.Add(d)}
}

// Corners expands the stored corners into a closed ring of four points.
func (r Rectangle) Corners() []Point2D {
	return []Point2D{
		r.Corner1,
		{X: r.Corner2.X, Y: r.Corner1.Y},
		r.Corner2,
		{X: r.Corner1.X, Y: r.Corner2.Y},
	}
}

// Circle is a full circle. DiameterMode and TwoPointDiameter record which
// tool produced it; they do not change the geometry.
type Circle struct {
	Center           Point2D `json:"center"`
	Radius           float64 `json:"radius"`
	DiameterMode     bool    `json:"diameterMode,omitempty"`
	TwoPointDiameter bool    `json:"twoPointDiameter,omitempty"`
}

func (Circle) Kind() Kind { return KindCircle }

func (c Circle) Translate(dx, dy float64) Geometry {
	c.Center = c.Center.Add(Pt(dx, dy))
	return c
}

func (c Circle) Bounds() Rect {
	return Rect{
		MinX: c.Center.X - c.Radius,
		MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius,
		MaxY: c.Center.Y + c.Radius,
	}
}

// Arc is a circular arc swept counter-clockwise from StartAngle to EndAngle
// (degrees).
type Arc struct {
	Center     Point2D `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
}

func (Arc) Kind() Kind { return KindArc }

func (a Arc) Translate(dx, dy float64) Geometry {
	a.Center = a.Center.Add(Pt(dx, dy))
	return a
}

// PointAt returns the point on the arc's circle at the given angle (degrees).
func (a Arc) PointAt(deg float64) Point2D {
	rad := deg * math.Pi / 180
	return Point2D{X: a.Center.X + a.Radius*math.Cos(rad), Y: a.Center.Y + a.Radius*math.Sin(rad)}
}

// Bounds returns the tight box of the swept part: both endpoints plus every
// axis extreme the sweep passes.
func (a Arc) Bounds() Rect {
	start := normalizeDegrees(a.StartAngle)
	sweep := normalizeDegrees(a.EndAngle - a.StartAngle)
	if sweep == 0 {
		sweep = 360
	}
	r := RectFromPoints(a.PointAt(start), a.PointAt(start+sweep))
	for _, q := range []float64{0, 90, 180, 270} {
		if normalizeDegrees(q-start) <= sweep {
			p := a.PointAt(q)
			r.MinX = math.Min(r.MinX, p.X)
			r.MinY = math.Min(r.MinY, p.Y)
			r.MaxX = math.Max(r.MaxX, p.X)
			r.MaxY = math.Max(r.MaxY, p.Y)
		}
	}
	return r
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// Polyline is an ordered vertex list; Closed adds the edge last→first.
type Polyline struct {
	Vertices []Point2D `json:"vertices"`
	Closed   bool      `json:"closed"`
}

func (Polyline) Kind() Kind { return KindPolyline }

func (p Polyline) Translate(dx, dy float64) Geometry {
	d := Pt(dx, dy)
	out := make([]Point2D, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.Add(d)
	}
	return Polyline{Vertices: out, Closed: p.Closed}
}

// AngleMeasurement is the angle at Vertex between the rays to Point1 and
// Point2, in degrees within [0, 360).
type AngleMeasurement struct {
	Vertex Point2D `json:"vertex"`
	Point1 Point2D `json:"point1"`
	Point2 Point2D `json:"point2"`
	Angle  float64 `json:"angle"`
}

func (AngleMeasurement) Kind() Kind { return KindAngle }

func (a AngleMeasurement) Translate(dx, dy float64) Geometry {
	d := Pt(dx, dy)
	a.Vertex = a.Vertex.Add(d)
	a.Point1 = a.Point1.Add(d)
	a.Point2 = a.Point2.Add(d)
	return a
}

// Marker is a small square indicator; Size is the half-width in world units.
type Marker struct {
	At   Point2D `json:"at"`
	Size float64 `json:"size"`
}

func (Marker) Kind() Kind { return KindMarker }

func (m Marker) Translate(dx, dy float64) Geometry {
	m.At = m.At.Add(Pt(dx, dy))
	return m
}

func (m Marker) Bounds() Rect {
	return Rect{MinX: m.At.X - m.Size, MinY: m.At.Y - m.Size, MaxX: m.At.X + m.Size, MaxY: m.At.Y + m.Size}
}

// Opaque stands in for imported entity kinds the editing core does not
// interpret (text, dimensions, hatches); only their box is known.
type Opaque struct {
	TypeName string `json:"typeName"`
	Box      Rect   `json:"bounds"`
}

func (Opaque) Kind() Kind { return KindOpaque }

func (o Opaque) Translate(dx, dy float64) Geometry {
	o.Box = Rect{MinX: o.Box.MinX + dx, MinY: o.Box.MinY + dy, MaxX: o.Box.MaxX + dx, MaxY: o.Box.MaxY + dy}
	return o
}

func (o Opaque) Bounds() Rect { return o.Box }

// entityJSON is the wire form of Entity with a type discriminator.
type entityJSON struct {
	ID          EntityID        `json:"id"`
	Type        Kind            `json:"type"`
	Layer       string          `json:"layer"`
	Color       string          `json:"color,omitempty"`
	Visible     bool            `json:"visible"`
	Measurement bool            `json:"measurement,omitempty"`
	Geometry    json.RawMessage `json:"geometry"`
}

// MarshalJSON encodes the entity with its geometry under "geometry".
func (e Entity) MarshalJSON() ([]byte, error) {
	geometry, err := json.Marshal(e.Geometry)
	if err != nil {
		return nil, fmt.Errorf("marshal geometry of %s: %w", e.ID, err)
	}
	return json.Marshal(entityJSON{
		ID:          e.ID,
		Type:        e.Type(),
		Layer:       e.Layer,
		Color:       e.Color,
		Visible:     e.Visible,
		Measurement: e.Measurement,
		Geometry:    geometry,
	})
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw entityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	geometry, err := DecodeGeometry(raw.Type, raw.Geometry)
	if err != nil {
		return fmt.Errorf("entity %s: %w", raw.ID, err)
	}
	*e = Entity{
		ID:          raw.ID,
		Layer:       raw.Layer,
		Color:       raw.Color,
		Visible:     raw.Visible,
		Measurement: raw.Measurement,
		Geometry:    geometry,
	}
	return nil
}

// DecodeGeometry decodes a geometry payload for the given kind. An empty
// kind is an entity without geometry and decodes to nil.
func DecodeGeometry(kind Kind, data []byte) (Geometry, error) {
	var (
		g   Geometry
		err error
	)
	switch kind {
	case "":
		return nil, nil
	case KindLine:
		var v Line
		err = json.Unmarshal(data, &v)
		g = v
	case KindRectangle:
		var v Rectangle
		err = json.Unmarshal(data, &v)
		g = v
	case KindCircle:
		var v Circle
		err = json.Unmarshal(data, &v)
		g = v
	case KindArc:
		var v Arc
		err = json.Unmarshal(data, &v)
		g = v
	case KindPolyline:
		var v Polyline
		err = json.Unmarshal(data, &v)
		g = v
	case KindAngle:
		var v AngleMeasurement
		err = json.Unmarshal(data, &v)
		g = v
	case KindMarker:
		var v Marker
		err = json.Unmarshal(data, &v)
		g = v
	case KindOpaque:
		var v Opaque
		err = json.Unmarshal(data, &v)
		g = v
	default:
		return nil, fmt.Errorf("unknown geometry type %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s geometry: %w", kind, err)
	}
	return g, nil
}
