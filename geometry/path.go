// Package geometry turns links into drawable point sequences and answers
// proximity queries against them. Paths are recomputed from the link and its
// endpoint positions on every call; nothing here caches or mutates state.
package geometry

import (
	"math"

	"github.com/phyoewaiaung/network-map/netmap"
)

const (
	// Curvature scales the control-point offset of a curved link relative
	// to the distance between its endpoints.
	Curvature = 0.28
	// CurveSegments is the sample count for rendering a curved link.
	CurveSegments = 28
	// SeedSegments is the denser sample count used when converting a
	// curved link into editable waypoints.
	SeedSegments = 36
	// SplineSamples is the number of points emitted per control-point
	// span when smoothing a custom path.
	SplineSamples = 14
)

// Straight returns the two-point path between a and b.
func Straight(a, b netmap.Coordinate) []netmap.Coordinate {
	return []netmap.Coordinate{a, b}
}

// QuadraticArc samples a quadratic Bezier from a to b whose control point
// sits perpendicular to the ab midpoint at Curvature times the endpoint
// distance. The left-hand perpendicular keeps the bow on a deterministic
// side for a given endpoint order, so a->b and b->a arcs mirror each other.
// The result has segments+1 points and starts and ends exactly on a and b.
func QuadraticArc(a, b netmap.Coordinate, segments int) []netmap.Coordinate {
	if segments < 1 {
		segments = 1
	}

	ctrl := Mid(a, b)
	if length := Dist(a, b); length > 0 {
		offset := length * Curvature
		ctrl.Lat += (a.Lng - b.Lng) / length * offset
		ctrl.Lng += (b.Lat - a.Lat) / length * offset
	}

	points := make([]netmap.Coordinate, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		points = append(points, quadBezier(a, ctrl, b, t))
	}
	return points
}

// quadBezier evaluates the quadratic Bezier (a, ctrl, b) at t.
func quadBezier(a, ctrl, b netmap.Coordinate, t float64) netmap.Coordinate {
	u := 1 - t
	return netmap.Coordinate{
		Lat: u*u*a.Lat + 2*u*t*ctrl.Lat + t*t*b.Lat,
		Lng: u*u*a.Lng + 2*u*t*ctrl.Lng + t*t*b.Lng,
	}
}

// Spline smooths a polyline with a uniform Catmull-Rom spline. The curve
// passes through every input point; the first and last input are duplicated
// so the ends are interpolated rather than cut short. Inputs of two points
// or fewer are returned unchanged.
func Spline(points []netmap.Coordinate) []netmap.Coordinate {
	if len(points) <= 2 {
		return points
	}

	padded := make([]netmap.Coordinate, 0, len(points)+2)
	padded = append(padded, points[0])
	padded = append(padded, points...)
	padded = append(padded, points[len(points)-1])

	out := make([]netmap.Coordinate, 0, (len(points)-1)*SplineSamples+1)
	for i := 0; i+3 < len(padded); i++ {
		p0, p1, p2, p3 := padded[i], padded[i+1], padded[i+2], padded[i+3]
		for j := 0; j < SplineSamples; j++ {
			t := float64(j) / float64(SplineSamples)
			out = append(out, catmullRom(p0, p1, p2, p3, t))
		}
	}
	// Each span samples t in [0,1), so the final input point is appended
	// explicitly to land exactly on it.
	out = append(out, points[len(points)-1])
	return out
}

// catmullRom evaluates the uniform Catmull-Rom segment from p1 to p2 at t,
// with p0 and p3 shaping the tangents.
func catmullRom(p0, p1, p2, p3 netmap.Coordinate, t float64) netmap.Coordinate {
	t2 := t * t
	t3 := t2 * t
	return netmap.Coordinate{
		Lat: 0.5 * ((2 * p1.Lat) +
			(-p0.Lat+p2.Lat)*t +
			(2*p0.Lat-5*p1.Lat+4*p2.Lat-p3.Lat)*t2 +
			(-p0.Lat+3*p1.Lat-3*p2.Lat+p3.Lat)*t3),
		Lng: 0.5 * ((2 * p1.Lng) +
			(-p0.Lng+p2.Lng)*t +
			(2*p0.Lng-5*p1.Lng+4*p2.Lng-p3.Lng)*t2 +
			(-p0.Lng+3*p1.Lng-3*p2.Lng+p3.Lng)*t3),
	}
}

// SeedWaypoints converts the arc a curved link would draw into a small set
// of waypoints, so editing starts from handles that already trace the arc.
// The arc is sampled densely, the endpoints are dropped, and the interior is
// thinned to roughly ten points. a and b themselves are never seeded; they
// stay implicit endpoints.
func SeedWaypoints(a, b netmap.Coordinate) []netmap.Coordinate {
	arc := QuadraticArc(a, b, SeedSegments)
	interior := arc[1 : len(arc)-1]

	step := len(interior) / 10
	if step < 1 {
		step = 1
	}

	seeds := make([]netmap.Coordinate, 0, len(interior)/step+1)
	for i := 0; i < len(interior); i += step {
		seeds = append(seeds, interior[i])
	}
	return seeds
}

// ControlPoints returns the polyline a custom link is edited against: the
// source position, the waypoints in order, then the target position.
func ControlPoints(l netmap.Link, a, b netmap.Coordinate) []netmap.Coordinate {
	points := make([]netmap.Coordinate, 0, len(l.Waypoints)+2)
	points = append(points, a)
	points = append(points, l.Waypoints...)
	points = append(points, b)
	return points
}

// Render computes the drawable path for a link between resolved endpoint
// positions a and b. Straight and curved links ignore any stored waypoints;
// custom links draw through theirs, smoothed when the link is curvy.
func Render(l netmap.Link, a, b netmap.Coordinate) []netmap.Coordinate {
	switch l.Style {
	case netmap.StyleCurved:
		return QuadraticArc(a, b, CurveSegments)
	case netmap.StyleCustom:
		ctrl := ControlPoints(l, a, b)
		if !l.Curvy {
			return ctrl
		}
		return Spline(ctrl)
	default:
		return Straight(a, b)
	}
}

// Length returns the total polyline length of a path.
func Length(path []netmap.Coordinate) float64 {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		total += Dist(path[i], path[i+1])
	}
	return total
}

// Bounds returns the bounding box of a path. The second return is false for
// an empty path.
func Bounds(path []netmap.Coordinate) (min, max netmap.Coordinate, ok bool) {
	if len(path) == 0 {
		return netmap.Coordinate{}, netmap.Coordinate{}, false
	}
	min, max = path[0], path[0]
	for _, p := range path[1:] {
		min.Lat = math.Min(min.Lat, p.Lat)
		min.Lng = math.Min(min.Lng, p.Lng)
		max.Lat = math.Max(max.Lat, p.Lat)
		max.Lng = math.Max(max.Lng, p.Lng)
	}
	return min, max, true
}
