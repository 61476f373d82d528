// Package flatproj provides a flat-earth projection around a reference point.
// Within the few kilometers a simulated drive covers between ticks the
// distortion is negligible.
package flatproj

import "math"

// earthRadiusKm is the mean earth radius.
const earthRadiusKm = 6371.0088

// Point is a position in kilometers east (X) and north (Y) of the projection
// origin.
type Point struct {
	X float64
	Y float64
}

// Projection is a local tangent-plane projection anchored at a reference
// latitude/longitude in decimal degrees.
type Projection struct {
	lat0    float64
	lng0    float64
	cosLat0 float64
}

// New anchors a projection at the given point.
func New(lat, lng float64) *Projection {
	return &Projection{
		lat0:    lat,
		lng0:    lng,
		cosLat0: math.Cos(lat * math.Pi / 180),
	}
}

// Project maps a latitude/longitude onto the plane.
func (p *Projection) Project(lat, lng float64) Point {
	return Point{
		X: (lng - p.lng0) * math.Pi / 180 * earthRadiusKm * p.cosLat0,
		Y: (lat - p.lat0) * math.Pi / 180 * earthRadiusKm,
	}
}

// Unproject maps a plane point back to latitude/longitude.
func (p *Projection) Unproject(pt Point) (lat, lng float64) {
	lat = p.lat0 + pt.Y/earthRadiusKm*180/math.Pi
	lng = p.lng0
	if p.cosLat0 != 0 {
		lng = p.lng0 + pt.X/(earthRadiusKm*p.cosLat0)*180/math.Pi
	}
	return lat, lng
}
