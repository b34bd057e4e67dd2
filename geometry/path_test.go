package geometry

import (
	"math"
	"testing"

	"github.com/phyoewaiaung/network-map/netmap"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func coordApprox(a, b netmap.Coordinate) bool {
	return approx(a.Lat, b.Lat) && approx(a.Lng, b.Lng)
}

func TestStraight(t *testing.T) {
	a := netmap.Coordinate{Lat: 1, Lng: 2}
	b := netmap.Coordinate{Lat: 3, Lng: 4}

	path := Straight(a, b)
	if len(path) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(path))
	}
	if path[0] != a || path[1] != b {
		t.Errorf("Expected [%v %v], got %v", a, b, path)
	}
}

func TestQuadraticArc(t *testing.T) {
	a := netmap.Coordinate{Lat: 0, Lng: 0}
	b := netmap.Coordinate{Lat: 0, Lng: 10}

	path := QuadraticArc(a, b, CurveSegments)

	if len(path) != CurveSegments+1 {
		t.Fatalf("Expected %d points, got %d", CurveSegments+1, len(path))
	}
	if path[0] != a {
		t.Errorf("Arc does not start on the source: %v", path[0])
	}
	if path[len(path)-1] != b {
		t.Errorf("Arc does not end on the target: %v", path[len(path)-1])
	}

	// The sample at t=0.5 bows away from the midpoint of ab by half the
	// control offset: 10 * 0.28 / 2.
	mid := path[CurveSegments/2]
	if !approx(Dist(mid, Mid(a, b)), 10*Curvature/2) {
		t.Errorf("Expected bow depth %v at the arc midpoint, got %v", 10*Curvature/2, Dist(mid, Mid(a, b)))
	}

	// Every interior sample sits off the ab baseline, on the same side.
	for i, p := range path[1 : len(path)-1] {
		if p.Lat >= 0 {
			t.Errorf("Sample %d not on the bow side: %v", i+1, p)
		}
	}
}

func TestQuadraticArcMirrors(t *testing.T) {
	a := netmap.Coordinate{Lat: 0, Lng: 0}
	b := netmap.Coordinate{Lat: 0, Lng: 10}

	// Swapping the endpoints flips the bow to the other side of the line.
	forward := QuadraticArc(a, b, CurveSegments)
	reverse := QuadraticArc(b, a, CurveSegments)

	fMid := forward[CurveSegments/2]
	rMid := reverse[CurveSegments/2]
	if !approx(fMid.Lat, -rMid.Lat) {
		t.Errorf("Expected mirrored bows, got %v and %v", fMid, rMid)
	}
}

func TestQuadraticArcDegenerate(t *testing.T) {
	a := netmap.Coordinate{Lat: 5, Lng: 5}

	// Coincident endpoints collapse to a run of identical points rather
	// than dividing by a zero length.
	path := QuadraticArc(a, a, CurveSegments)
	for i, p := range path {
		if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
			t.Fatalf("Sample %d is NaN", i)
		}
		if p != a {
			t.Errorf("Sample %d drifted from the shared endpoint: %v", i, p)
		}
	}
}

func TestSplinePassthroughBelowThreePoints(t *testing.T) {
	two := []netmap.Coordinate{{Lat: 0}, {Lat: 1}}
	if got := Spline(two); len(got) != 2 || got[0] != two[0] || got[1] != two[1] {
		t.Errorf("Expected two-point input unchanged, got %v", got)
	}

	one := []netmap.Coordinate{{Lat: 7}}
	if got := Spline(one); len(got) != 1 {
		t.Errorf("Expected single point unchanged, got %v", got)
	}
}

func TestSplineInterpolatesControlPoints(t *testing.T) {
	points := []netmap.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 5, Lng: 5},
		{Lat: 0, Lng: 10},
		{Lat: -5, Lng: 15},
	}

	out := Spline(points)

	wantLen := (len(points)-1)*SplineSamples + 1
	if len(out) != wantLen {
		t.Fatalf("Expected %d samples, got %d", wantLen, len(out))
	}
	if out[0] != points[0] {
		t.Errorf("Spline does not start on the first control point: %v", out[0])
	}
	if out[len(out)-1] != points[len(points)-1] {
		t.Errorf("Spline does not end on the last control point: %v", out[len(out)-1])
	}

	// The curve interpolates: every control point appears at the start of
	// its span.
	for i, p := range points[:len(points)-1] {
		if got := out[i*SplineSamples]; !coordApprox(got, p) {
			t.Errorf("Control point %d not on the curve: want %v, got %v", i, p, got)
		}
	}
}

func TestSeedWaypoints(t *testing.T) {
	a := netmap.Coordinate{Lat: 0, Lng: 0}
	b := netmap.Coordinate{Lat: 0, Lng: 10}

	seeds := SeedWaypoints(a, b)

	// A 36-segment arc has 35 interior samples; a stride of 3 keeps 12.
	if len(seeds) != 12 {
		t.Fatalf("Expected 12 seeds, got %d", len(seeds))
	}
	for i, s := range seeds {
		if s == a || s == b {
			t.Errorf("Seed %d coincides with an endpoint: %v", i, s)
		}
		if s.Lng <= 0 || s.Lng >= 10 {
			t.Errorf("Seed %d outside the endpoint span: %v", i, s)
		}
		// Seeds follow the arc, so they sit on its bow side.
		if s.Lat >= 0 {
			t.Errorf("Seed %d not on the bow side: %v", i, s)
		}
	}
}

func TestRenderDispatch(t *testing.T) {
	a := netmap.Coordinate{Lat: 0, Lng: 0}
	b := netmap.Coordinate{Lat: 0, Lng: 10}
	waypoints := []netmap.Coordinate{{Lat: 3, Lng: 3}, {Lat: 3, Lng: 7}}

	// Straight and curved links ignore stored waypoints entirely.
	l := netmap.Link{Source: "a", Target: "b", Style: netmap.StyleStraight, Waypoints: waypoints}
	if got := Render(l, a, b); len(got) != 2 {
		t.Errorf("Straight render used waypoints: %d points", len(got))
	}

	l.Style = netmap.StyleCurved
	if got := Render(l, a, b); len(got) != CurveSegments+1 {
		t.Errorf("Expected %d curved samples, got %d", CurveSegments+1, len(got))
	}

	// A custom link without smoothing is the bare control polyline.
	l.Style = netmap.StyleCustom
	got := Render(l, a, b)
	if len(got) != 4 {
		t.Fatalf("Expected 4 control points, got %d", len(got))
	}
	if got[0] != a || got[1] != waypoints[0] || got[2] != waypoints[1] || got[3] != b {
		t.Errorf("Control polyline out of order: %v", got)
	}

	// Smoothing expands the polyline through the same control points.
	l.Curvy = true
	smoothed := Render(l, a, b)
	if len(smoothed) != 3*SplineSamples+1 {
		t.Errorf("Expected %d smoothed samples, got %d", 3*SplineSamples+1, len(smoothed))
	}
	if smoothed[0] != a || smoothed[len(smoothed)-1] != b {
		t.Errorf("Smoothed path detached from its endpoints: %v ... %v", smoothed[0], smoothed[len(smoothed)-1])
	}

	// A corrupt style value falls back to straight.
	l.Style = netmap.LinkStyle(99)
	if got := Render(l, a, b); len(got) != 2 {
		t.Errorf("Expected fallback to straight, got %d points", len(got))
	}
}

func TestLengthAndBounds(t *testing.T) {
	path := []netmap.Coordinate{{Lat: 0, Lng: 0}, {Lat: 3, Lng: 4}, {Lat: 3, Lng: 10}}

	if got := Length(path); !approx(got, 11) {
		t.Errorf("Expected length 11, got %v", got)
	}

	min, max, ok := Bounds(path)
	if !ok {
		t.Fatal("Bounds reported an empty path")
	}
	if min != (netmap.Coordinate{Lat: 0, Lng: 0}) || max != (netmap.Coordinate{Lat: 3, Lng: 10}) {
		t.Errorf("Wrong bounds: %v %v", min, max)
	}

	if _, _, ok := Bounds(nil); ok {
		t.Error("Expected ok=false for an empty path")
	}
}
