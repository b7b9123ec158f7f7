package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean radius of Earth used for Haversine distance.
const EarthRadiusMeters = 6_371_000.0

// Point is a validated WGS84 coordinate pair in degrees.
type Point struct {
	lat float64
	lon float64
}

// NewPoint validates and creates a Point.
func NewPoint(lat, lon float64) (Point, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || !ValidateCoordinates(lat, lon) {
		return Point{}, fmt.Errorf("coordinates out of range: (%v, %v)", lat, lon)
	}
	return Point{lat: lat, lon: lon}, nil
}

// Lat returns the latitude.
func (p Point) Lat() float64 { return p.lat }

// Lon returns the longitude.
func (p Point) Lon() float64 { return p.lon }

// String formats the point as "(lat, lon)".
func (p Point) String() string { return fmt.Sprintf("(%v, %v)", p.lat, p.lon) }

// DistanceMeters returns the great-circle distance to q.
func (p Point) DistanceMeters(q Point) float64 {
	return Haversine(p.lat, p.lon, q.lat, q.lon)
}

// Haversine returns the great-circle distance in meters between two points
// specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
