package netmap

import "github.com/google/uuid"

// DevicePatch carries optional field updates for UpdateDevice. Nil fields are
// left untouched.
type DevicePatch struct {
	Label    *string
	Position *Coordinate
	Status   *DeviceStatus
	Width    *float64
	Height   *float64
}

// AddDevice inserts a new device at pos and returns its generated id. New
// devices start unlabeled with StatusAvailable.
func (m *Map) AddDevice(pos Coordinate) string {
	id := uuid.New().String()
	m.Devices = append(m.Devices, Device{
		ID:       id,
		Position: pos,
		Status:   StatusAvailable,
	})
	return id
}

// Device returns the device with the given id.
func (m *Map) Device(id string) (Device, bool) {
	for _, d := range m.Devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// HasDevice reports whether a device with the given id exists.
func (m *Map) HasDevice(id string) bool {
	_, ok := m.Device(id)
	return ok
}

// UpdateDevice applies the non-nil fields of patch to the device with the
// given id. Unknown ids are ignored.
func (m *Map) UpdateDevice(id string, patch DevicePatch) {
	for i := range m.Devices {
		if m.Devices[i].ID != id {
			continue
		}
		if patch.Label != nil {
			m.Devices[i].Label = *patch.Label
		}
		if patch.Position != nil {
			m.Devices[i].Position = *patch.Position
		}
		if patch.Status != nil {
			m.Devices[i].Status = *patch.Status
		}
		if patch.Width != nil {
			m.Devices[i].Width = *patch.Width
		}
		if patch.Height != nil {
			m.Devices[i].Height = *patch.Height
		}
		return
	}
}

// RemoveDevice deletes the device with the given id together with every link
// that references it, so no link is ever left dangling by an edit. Unknown
// ids are ignored.
func (m *Map) RemoveDevice(id string) {
	devices := make([]Device, 0, len(m.Devices))
	for _, d := range m.Devices {
		if d.ID != id {
			devices = append(devices, d)
		}
	}
	m.Devices = devices

	links := make([]Link, 0, len(m.Links))
	for _, l := range m.Links {
		if !l.Connects(id) {
			links = append(links, l)
		}
	}
	m.Links = links
}

// AddLink appends a straight link from source to target, ignored when the
// same ordered pair is already linked. Endpoint existence is not checked;
// callers own id hygiene, and consumers skip links whose devices are
// missing. Self-links are permitted.
func (m *Map) AddLink(source, target string) {
	if m.findLink(source, target) != nil {
		return
	}
	m.Links = append(m.Links, Link{
		Source: source,
		Target: target,
		Style:  StyleStraight,
	})
}

// Link returns the link with the given ordered endpoint pair.
func (m *Map) Link(source, target string) (Link, bool) {
	if l := m.findLink(source, target); l != nil {
		return *l, true
	}
	return Link{}, false
}

func (m *Map) findLink(source, target string) *Link {
	for i := range m.Links {
		if m.Links[i].Source == source && m.Links[i].Target == target {
			return &m.Links[i]
		}
	}
	return nil
}

// SetLinkStyle changes how the given link's path is generated. Unknown pairs
// are ignored.
func (m *Map) SetLinkStyle(source, target string, style LinkStyle) {
	if l := m.findLink(source, target); l != nil {
		l.Style = style
	}
}

// SetLinkWaypoints replaces the given link's waypoint list.
func (m *Map) SetLinkWaypoints(source, target string, waypoints []Coordinate) {
	if l := m.findLink(source, target); l != nil {
		l.Waypoints = waypoints
	}
}

// SetLinkCurvy toggles spline smoothing of the given link's custom path.
func (m *Map) SetLinkCurvy(source, target string, curvy bool) {
	if l := m.findLink(source, target); l != nil {
		l.Curvy = curvy
	}
}

// RemoveLink deletes the link with the given ordered endpoint pair. Unknown
// pairs are ignored.
func (m *Map) RemoveLink(source, target string) {
	links := make([]Link, 0, len(m.Links))
	for _, l := range m.Links {
		if l.Source == source && l.Target == target {
			continue
		}
		links = append(links, l)
	}
	m.Links = links
}

// IncidentLinks returns every link that starts or ends at the given device.
func (m *Map) IncidentLinks(id string) []Link {
	var incident []Link
	for _, l := range m.Links {
		if l.Connects(id) {
			incident = append(incident, l)
		}
	}
	return incident
}
