package geometry

import (
	"math"

	"github.com/phyoewaiaung/network-map/netmap"
)

// Dist returns the Euclidean distance between two coordinates.
func Dist(a, b netmap.Coordinate) float64 {
	return math.Hypot(b.Lat-a.Lat, b.Lng-a.Lng)
}

// SqDist returns the squared Euclidean distance between two coordinates.
// Useful for nearest-point comparisons where the root is not needed.
func SqDist(a, b netmap.Coordinate) float64 {
	dLat := b.Lat - a.Lat
	dLng := b.Lng - a.Lng
	return dLat*dLat + dLng*dLng
}

// Mid returns the midpoint of a and b.
func Mid(a, b netmap.Coordinate) netmap.Coordinate {
	return netmap.Coordinate{
		Lat: (a.Lat + b.Lat) / 2,
		Lng: (a.Lng + b.Lng) / 2,
	}
}
