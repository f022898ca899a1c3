// Package geo provides the distance estimate used by proximity sorting.
// All calculations use the haversine formula on WGS-84 coordinates.
package geo

import "math"

const earthRadiusKm = 6371.0

// DefaultTortuosity converts great-circle distance into an estimated road
// distance. Calibrated against a sparse road network where straight-line
// distance systematically understates real travel distance. Regional
// estimate, not a physical constant.
const DefaultTortuosity = 1.25

// Point is a WGS-84 coordinate pair. Latitude in [-90,90], longitude in
// [-180,180]. Behavior outside those ranges (or on NaN) is undefined and
// must be guarded by the caller.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(a, b Point) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	deltaLat := degreesToRadians(b.Lat - a.Lat)
	deltaLon := degreesToRadians(b.Lon - a.Lon)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// RoadKm returns the estimated road distance between two points, rounded to
// one decimal. The tortuosity factor scales the great-circle distance; pass
// DefaultTortuosity unless configured otherwise.
func RoadKm(a, b Point, tortuosity float64) float64 {
	return math.Round(HaversineKm(a, b)*tortuosity*10) / 10
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
