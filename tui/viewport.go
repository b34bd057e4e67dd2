package tui

import (
	"github.com/phyoewaiaung/network-map/geometry"
	"github.com/phyoewaiaung/network-map/netmap"
)

// Viewport maps geographic coordinates onto the terminal cell grid. Zoom
// scales around the viewport center; panning shifts in whole cells.
type Viewport struct {
	min, max netmap.Coordinate
	zoom     float64
	offsetX  int
	offsetY  int
}

// NewViewport creates a viewport at 1x zoom with an empty extent.
func NewViewport() *Viewport {
	return &Viewport{zoom: 1.0}
}

// Fit sets the viewport extent to cover every device and waypoint on the
// map, with a small margin so nothing sits on the very edge.
func (v *Viewport) Fit(m *netmap.Map) {
	points := make([]netmap.Coordinate, 0, len(m.Devices))
	for _, d := range m.Devices {
		points = append(points, d.Position)
	}
	for _, l := range m.Links {
		points = append(points, l.Waypoints...)
	}

	min, max, ok := geometry.Bounds(points)
	if !ok {
		min = netmap.Coordinate{Lat: -1, Lng: -1}
		max = netmap.Coordinate{Lat: 1, Lng: 1}
	}
	// Degenerate extents (one device, or all in a line) still need area to
	// divide by.
	if max.Lat-min.Lat < 1e-9 {
		min.Lat -= 1
		max.Lat += 1
	}
	if max.Lng-min.Lng < 1e-9 {
		min.Lng -= 1
		max.Lng += 1
	}
	margin := 0.05
	latPad := (max.Lat - min.Lat) * margin
	lngPad := (max.Lng - min.Lng) * margin
	v.min = netmap.Coordinate{Lat: min.Lat - latPad, Lng: min.Lng - lngPad}
	v.max = netmap.Coordinate{Lat: max.Lat + latPad, Lng: max.Lng + lngPad}
}

// ZoomIn scales up by 1.2x, capped at 64x.
func (v *Viewport) ZoomIn() {
	if v.zoom < 64 {
		v.zoom *= 1.2
	}
}

// ZoomOut scales down by 1.2x, floored at 0.05x.
func (v *Viewport) ZoomOut() {
	if v.zoom > 0.05 {
		v.zoom /= 1.2
	}
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// Pan shifts the view by whole cells.
func (v *Viewport) Pan(dx, dy int) {
	v.offsetX += dx
	v.offsetY += dy
}

// Project maps a coordinate to cell coordinates on a w by h grid. North is
// up, so latitude grows toward the top of the screen.
func (v *Viewport) Project(c netmap.Coordinate, w, h int) (x, y int) {
	nx := (c.Lng - v.min.Lng) / (v.max.Lng - v.min.Lng)
	ny := (c.Lat - v.min.Lat) / (v.max.Lat - v.min.Lat)
	zx := 0.5 + (nx-0.5)*v.zoom
	zy := 0.5 + (ny-0.5)*v.zoom
	x = int(zx*float64(w-1)) + v.offsetX
	y = int((1.0-zy)*float64(h-1)) + v.offsetY
	return x, y
}

// ProjectMicro maps a coordinate onto the 2x4-per-cell braille microgrid.
func (v *Viewport) ProjectMicro(c netmap.Coordinate, w, h int) (x, y int) {
	nx := (c.Lng - v.min.Lng) / (v.max.Lng - v.min.Lng)
	ny := (c.Lat - v.min.Lat) / (v.max.Lat - v.min.Lat)
	zx := 0.5 + (nx-0.5)*v.zoom
	zy := 0.5 + (ny-0.5)*v.zoom
	wMic := w * 2
	hMic := h * 4
	x = int(zx*float64(wMic-1)) + v.offsetX*2
	y = int((1.0-zy)*float64(hMic-1)) + v.offsetY*4
	return x, y
}

// Unproject maps a cell back to the coordinate at its position, inverting
// Project. Pointer events arrive in cells and the editing session works in
// map coordinates.
func (v *Viewport) Unproject(x, y, w, h int) netmap.Coordinate {
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}
	zx := float64(x-v.offsetX) / float64(w-1)
	zy := 1.0 - float64(y-v.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/v.zoom
	ny := 0.5 + (zy-0.5)/v.zoom
	return netmap.Coordinate{
		Lat: v.min.Lat + ny*(v.max.Lat-v.min.Lat),
		Lng: v.min.Lng + nx*(v.max.Lng-v.min.Lng),
	}
}
