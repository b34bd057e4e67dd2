package editor

import (
	"github.com/phyoewaiaung/network-map/geometry"
	"github.com/phyoewaiaung/network-map/netmap"
)

// Map mutations routed through the session. Hosts call these instead of
// touching the map directly so that edits which invalidate the current
// editing state also exit it.

// AddDevice adds a device to the map and returns its id.
func (s *Session) AddDevice(pos netmap.Coordinate) string {
	return s.m.AddDevice(pos)
}

// UpdateDevice patches a device. Moving a device implicitly reshapes every
// path that ends at it, since paths are derived per render.
func (s *Session) UpdateDevice(id string, patch netmap.DevicePatch) {
	s.m.UpdateDevice(id, patch)
}

// RemoveDevice removes a device and its incident links. If the link being
// edited is among them the session drops back to idle.
func (s *Session) RemoveDevice(id string) {
	s.m.RemoveDevice(id)
	s.syncWithMap()
}

// AddLink adds a straight link between two devices.
func (s *Session) AddLink(source, target string) {
	s.m.AddLink(source, target)
}

// RemoveLink removes a link, exiting the edit session if it was the one
// being edited.
func (s *Session) RemoveLink(source, target string) {
	s.m.RemoveLink(source, target)
	s.syncWithMap()
}

// SetLinkStyle changes a link's style. Choosing straight or curved discards
// any sculpted geometry: the waypoints are cleared, the curvy flag follows
// the chosen style, and an edit session on that link ends. Choosing custom
// keeps existing waypoints.
func (s *Session) SetLinkStyle(source, target string, style netmap.LinkStyle) {
	if _, ok := s.m.Link(source, target); !ok {
		return
	}
	if style != netmap.StyleCustom {
		if s.state != StateIdle && s.editing(source, target) {
			s.reset()
		}
		s.m.SetLinkWaypoints(source, target, nil)
		s.m.SetLinkCurvy(source, target, style == netmap.StyleCurved)
	}
	s.m.SetLinkStyle(source, target, style)
}

// SetLinkWaypoints replaces a link's waypoints.
func (s *Session) SetLinkWaypoints(source, target string, waypoints []netmap.Coordinate) {
	s.m.SetLinkWaypoints(source, target, waypoints)
}

// SetLinkCurvy toggles spline smoothing on a link's custom path.
func (s *Session) SetLinkCurvy(source, target string, curvy bool) {
	s.m.SetLinkCurvy(source, target, curvy)
}

// syncWithMap drops the editing state when the edited link no longer
// exists, which is how cascade deletions force the session back to idle.
func (s *Session) syncWithMap() {
	if s.state == StateIdle {
		return
	}
	if _, ok := s.m.Link(s.source, s.target); !ok {
		s.reset()
	}
}

// RenderedLink pairs a link with its computed path.
type RenderedLink struct {
	Link netmap.Link
	Path []netmap.Coordinate
}

// RenderPath computes the drawable path for one link. ok is false when
// either endpoint device is missing; such links are skipped for drawing.
func (s *Session) RenderPath(l netmap.Link) (path []netmap.Coordinate, ok bool) {
	a, b, ok := s.endpoints(l)
	if !ok {
		return nil, false
	}
	return geometry.Render(l, a, b), true
}

// RenderAll computes paths for every drawable link on the map, in map
// order.
func (s *Session) RenderAll() []RenderedLink {
	rendered := make([]RenderedLink, 0, len(s.m.Links))
	for _, l := range s.m.Links {
		path, ok := s.RenderPath(l)
		if !ok {
			continue
		}
		rendered = append(rendered, RenderedLink{Link: l, Path: path})
	}
	return rendered
}
