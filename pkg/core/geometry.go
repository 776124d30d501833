// pkg/core/geometry.go
package core

import "math"

// Point2D is a world- or screen-space coordinate pair.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a convenience constructor for Point2D.
func Pt(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dot returns the dot product of two vectors.
func (p Point2D) Dot(q Point2D) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the scalar 2D cross product.
func (p Point2D) Cross(q Point2D) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Distance returns the Euclidean distance between two points.
func (p Point2D) Distance(q Point2D) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Midpoint returns the point halfway between p and q.
func (p Point2D) Midpoint(q Point2D) Point2D {
	return Point2D{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// RectFromPoints returns the normalized rectangle spanned by two corners.
func RectFromPoints(a, b Point2D) Rect {
	return Rect{
		MinX: math.Min(a.X, b.X),
		MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X),
		MaxY: math.Max(a.Y, b.Y),
	}
}

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ContainsRect reports whether o lies fully inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.MinX >= r.MinX && o.MaxX <= r.MaxX && o.MinY >= r.MinY && o.MaxY <= r.MaxY
}

// Overlaps reports whether r and o share at least one point.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX <= o.MaxX && r.MaxX >= o.MinX && r.MinY <= o.MaxY && r.MaxY >= o.MinY
}

// Corners returns the four corners counter-clockwise from (MinX, MinY).
func (r Rect) Corners() [4]Point2D {
	return [4]Point2D{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MinX, Y: r.MaxY},
	}
}

// Viewport is the size of the drawing surface in screen pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ViewTransform maps world coordinates to screen pixels with a uniform
// scale and an offset. Screen Y grows downwards, world Y grows upwards.
type ViewTransform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// IdentityTransform is scale 1 with no offset.
var IdentityTransform = ViewTransform{Scale: 1}

func (t ViewTransform) scale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}

// WorldToScreen converts a world point into screen pixels.
func (t ViewTransform) WorldToScreen(p Point2D, vp Viewport) Point2D {
	return Point2D{
		X: p.X*t.scale() + t.OffsetX,
		Y: vp.Height - (p.Y*t.scale() + t.OffsetY),
	}
}

// ScreenToWorld converts a screen pixel position into world coordinates.
func (t ViewTransform) ScreenToWorld(p Point2D, vp Viewport) Point2D {
	s := t.scale()
	return Point2D{
		X: (p.X - t.OffsetX) / s,
		Y: (vp.Height - p.Y - t.OffsetY) / s,
	}
}

// PixelsToWorld converts a screen distance into world units.
func (t ViewTransform) PixelsToWorld(px float64) float64 {
	return px / t.scale()
}
