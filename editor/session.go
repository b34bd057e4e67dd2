package editor

import (
	"github.com/phyoewaiaung/network-map/geometry"
	"github.com/phyoewaiaung/network-map/netmap"
)

// Session drives link-path editing against a single map. All mutations are
// expected to flow through the session so it can keep its editing state
// consistent with the map; it is not safe for concurrent use.
type Session struct {
	m *netmap.Map

	state  State
	source string // endpoints of the link being edited, "" while idle
	target string

	dragIndex int // waypoint following the pointer, -1 while not dragging
}

// NewSession creates a session over m.
func NewSession(m *netmap.Map) *Session {
	return &Session{m: m, dragIndex: -1}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Map returns the map the session operates on.
func (s *Session) Map() *netmap.Map {
	return s.m
}

// SetMap swaps the underlying map and drops any editing state, since
// handles from the old document have no meaning in the new one.
func (s *Session) SetMap(m *netmap.Map) {
	s.m = m
	s.reset()
}

// EditedLink returns the endpoints of the link being edited. ok is false
// while the session is idle.
func (s *Session) EditedLink() (source, target string, ok bool) {
	if s.state == StateIdle {
		return "", "", false
	}
	return s.source, s.target, true
}

// DragIndex returns the waypoint index being dragged, or -1.
func (s *Session) DragIndex() int {
	return s.dragIndex
}

// Handles returns the waypoints of the link being edited, in order. It is
// empty while the session is idle.
func (s *Session) Handles() []netmap.Coordinate {
	if s.state == StateIdle {
		return nil
	}
	l, ok := s.m.Link(s.source, s.target)
	if !ok {
		return nil
	}
	return l.Waypoints
}

// BeginEdit puts the link (source, target) into custom style and enters
// editing mode. A curved link is first converted to a smoothed custom path
// seeded from its arc; a straight link becomes an unsmoothed custom path
// with no waypoints yet; a link already custom keeps its geometry. The
// event is ignored unless the session is idle and both endpoints resolve.
func (s *Session) BeginEdit(source, target string) {
	if s.state != StateIdle {
		return
	}
	l, ok := s.m.Link(source, target)
	if !ok {
		return
	}
	a, b, ok := s.endpoints(l)
	if !ok {
		return
	}

	switch l.Style {
	case netmap.StyleCurved:
		s.m.SetLinkStyle(source, target, netmap.StyleCustom)
		s.m.SetLinkCurvy(source, target, true)
		s.m.SetLinkWaypoints(source, target, geometry.SeedWaypoints(a, b))
	case netmap.StyleStraight:
		s.m.SetLinkStyle(source, target, netmap.StyleCustom)
		s.m.SetLinkCurvy(source, target, false)
		if l.Waypoints == nil {
			s.m.SetLinkWaypoints(source, target, []netmap.Coordinate{})
		}
	}

	s.state = StateEditing
	s.source = source
	s.target = target
	s.dragIndex = -1
}

// HandlePathClick inserts a waypoint at the click position, spliced into
// the control polyline at the segment nearest the click. Only clicks on the
// link currently in editing mode are acted on.
func (s *Session) HandlePathClick(source, target string, at netmap.Coordinate) {
	s.insertWaypoint(source, target, at)
}

// HandlePathPress inserts a waypoint like HandlePathClick and immediately
// starts dragging it, for press-and-sculpt interactions.
func (s *Session) HandlePathPress(source, target string, at netmap.Coordinate) {
	idx := s.insertWaypoint(source, target, at)
	if idx < 0 {
		return
	}
	s.state = StateDragging
	s.dragIndex = idx
}

// insertWaypoint splices at into the edited link's waypoints and returns
// the new waypoint's index, or -1 when the event was ignored.
func (s *Session) insertWaypoint(source, target string, at netmap.Coordinate) int {
	if s.state != StateEditing || !s.editing(source, target) {
		return -1
	}
	l, ok := s.m.Link(source, target)
	if !ok || l.Style != netmap.StyleCustom {
		return -1
	}
	a, b, ok := s.endpoints(l)
	if !ok {
		return -1
	}

	// The nearest segment of [a, waypoints..., b] is also the waypoint
	// offset where the new point keeps the polyline ordered.
	idx := geometry.NearestSegment(geometry.ControlPoints(l, a, b), at)
	if idx < 0 {
		return -1
	}

	waypoints := make([]netmap.Coordinate, 0, len(l.Waypoints)+1)
	waypoints = append(waypoints, l.Waypoints[:idx]...)
	waypoints = append(waypoints, at)
	waypoints = append(waypoints, l.Waypoints[idx:]...)
	s.m.SetLinkWaypoints(source, target, waypoints)
	return idx
}

// StartWaypointDrag begins dragging an existing waypoint handle. The event
// is ignored unless the session is editing that link and index is a valid
// waypoint position.
func (s *Session) StartWaypointDrag(source, target string, index int) {
	if s.state != StateEditing || !s.editing(source, target) {
		return
	}
	l, ok := s.m.Link(source, target)
	if !ok || l.Style != netmap.StyleCustom {
		return
	}
	if index < 0 || index >= len(l.Waypoints) {
		return
	}
	s.state = StateDragging
	s.dragIndex = index
}

// HandleDragMove moves the dragged waypoint to at. Ignored unless a drag
// is in progress.
func (s *Session) HandleDragMove(at netmap.Coordinate) {
	if s.state != StateDragging {
		return
	}
	l, ok := s.m.Link(s.source, s.target)
	if !ok || s.dragIndex < 0 || s.dragIndex >= len(l.Waypoints) {
		return
	}

	waypoints := make([]netmap.Coordinate, len(l.Waypoints))
	copy(waypoints, l.Waypoints)
	waypoints[s.dragIndex] = at
	s.m.SetLinkWaypoints(s.source, s.target, waypoints)
}

// EndDrag releases the dragged waypoint at its current position and
// returns to editing mode.
func (s *Session) EndDrag() {
	if s.state != StateDragging {
		return
	}
	s.state = StateEditing
	s.dragIndex = -1
}

// RemoveWaypoint deletes one waypoint handle from the edited link. The
// event is ignored unless the session is editing that link and index is a
// valid waypoint position.
func (s *Session) RemoveWaypoint(source, target string, index int) {
	if s.state != StateEditing || !s.editing(source, target) {
		return
	}
	l, ok := s.m.Link(source, target)
	if !ok || l.Style != netmap.StyleCustom {
		return
	}
	if index < 0 || index >= len(l.Waypoints) {
		return
	}

	waypoints := make([]netmap.Coordinate, 0, len(l.Waypoints)-1)
	waypoints = append(waypoints, l.Waypoints[:index]...)
	waypoints = append(waypoints, l.Waypoints[index+1:]...)
	s.m.SetLinkWaypoints(source, target, waypoints)
}

// Cancel leaves editing mode. The link keeps whatever geometry it has; the
// session just stops showing handles for it.
func (s *Session) Cancel() {
	s.reset()
}

// HandleKey feeds a key identifier from the host. Escape cancels an active
// edit; every other key is left to the host.
func (s *Session) HandleKey(key rune) {
	if key == KeyEscape {
		s.Cancel()
	}
}

func (s *Session) editing(source, target string) bool {
	return s.source == source && s.target == target
}

func (s *Session) reset() {
	s.state = StateIdle
	s.source = ""
	s.target = ""
	s.dragIndex = -1
}

// endpoints resolves a link's devices to their positions. ok is false when
// either device is missing.
func (s *Session) endpoints(l netmap.Link) (a, b netmap.Coordinate, ok bool) {
	src, okA := s.m.Device(l.Source)
	tgt, okB := s.m.Device(l.Target)
	if !okA || !okB {
		return netmap.Coordinate{}, netmap.Coordinate{}, false
	}
	return src.Position, tgt.Position, true
}
