package geometry

import "github.com/phyoewaiaung/network-map/netmap"

// NearestSegment returns the index i of the segment (vertices[i],
// vertices[i+1]) closest to p, measuring the clamped perpendicular distance
// to each segment. Ties resolve to the lowest index. Returns -1 when the
// polyline has fewer than two vertices.
//
// Against a control polyline this index doubles as the waypoint insertion
// offset: a point nearest segment i belongs at waypoint position i.
func NearestSegment(vertices []netmap.Coordinate, p netmap.Coordinate) int {
	if len(vertices) < 2 {
		return -1
	}

	best := 0
	bestDist := SqDistToSegment(p, vertices[0], vertices[1])
	for i := 1; i+1 < len(vertices); i++ {
		if d := SqDistToSegment(p, vertices[i], vertices[i+1]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// SqDistToSegment returns the squared distance from p to the segment ab. The
// projection parameter is clamped to the segment, so points beyond either
// end measure to the nearer endpoint. A zero-length segment measures to a.
func SqDistToSegment(p, a, b netmap.Coordinate) float64 {
	dLat := b.Lat - a.Lat
	dLng := b.Lng - a.Lng
	lenSq := dLat*dLat + dLng*dLng

	t := 0.0
	if lenSq > 0 {
		t = ((p.Lat-a.Lat)*dLat + (p.Lng-a.Lng)*dLng) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	closest := netmap.Coordinate{
		Lat: a.Lat + t*dLat,
		Lng: a.Lng + t*dLng,
	}
	return SqDist(p, closest)
}

// NearestVertex returns the index of the vertex closest to p, or -1 for an
// empty polyline. Hosts use this to pick the waypoint handle under a cursor.
func NearestVertex(vertices []netmap.Coordinate, p netmap.Coordinate) int {
	best := -1
	bestDist := 0.0
	for i, v := range vertices {
		d := SqDist(p, v)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
