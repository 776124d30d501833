package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/wroge/wgs84"
)

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ErrNoReference is returned when a scene carries no coordinate reference system.
var ErrNoReference = errors.New("scene has no coordinate reference system")

// AngleDegrees returns the angle at vertex from the ray towards p1 to the
// ray towards p2, normalized into [0, 360).
func AngleDegrees(vertex, p1, p2 core.Point2D) float64 {
	v1 := p1.Sub(vertex)
	v2 := p2.Sub(vertex)
	deg := math.Atan2(v1.Cross(v2), v1.Dot(v2)) * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -0 and values that round up to 360 both fold onto 0
	if deg >= 360 || deg == 0 {
		return 0
	}
	return deg
}

// ToWGS84 converts a world point of a georeferenced scene into longitude and
// latitude. epsg is the scene's projected coordinate reference system.
func ToWGS84(p core.Point2D, epsg int) (lon, lat float64, err error) {
	switch epsg {
	case 0:
		return 0, 0, ErrNoReference
	case 4326:
		return p.X, p.Y, nil
	}
	f := wgs84.EPSG().Transform(epsg, 4326)
	lon, lat, _ = f(p.X, p.Y, 0)
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return 0, 0, fmt.Errorf("transform EPSG:%d to EPSG:4326: %w", epsg, ErrInvalidCoordinates)
	}
	return lon, lat, nil
}
