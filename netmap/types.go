// Package netmap contains the fundamental types for a geospatial network
// map: devices placed at coordinates and the links that join them.
package netmap

import (
	"encoding/json"
	"fmt"
)

// Coordinate represents a geographic position in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DeviceStatus represents the operational state of a device.
type DeviceStatus int

const (
	StatusAvailable DeviceStatus = iota
	StatusConnected
	StatusDisabled
)

// String returns the string representation of a DeviceStatus.
func (s DeviceStatus) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusConnected:
		return "connected"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its lowercase name.
func (s DeviceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its name. An empty name maps to
// StatusAvailable so older documents stay loadable.
func (s *DeviceStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "", "available":
		*s = StatusAvailable
	case "connected":
		*s = StatusConnected
	case "disabled":
		*s = StatusDisabled
	default:
		return fmt.Errorf("unknown device status: %q", name)
	}
	return nil
}

// LinkStyle selects how a link's path is generated.
type LinkStyle int

const (
	// StyleStraight draws a single segment between the endpoints.
	StyleStraight LinkStyle = iota
	// StyleCurved draws a fixed quadratic arc between the endpoints.
	StyleCurved
	// StyleCustom draws through user-placed waypoints.
	StyleCustom
)

// String returns the string representation of a LinkStyle.
func (s LinkStyle) String() string {
	switch s {
	case StyleStraight:
		return "straight"
	case StyleCurved:
		return "curved"
	case StyleCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the style as its lowercase name.
func (s LinkStyle) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a style from its name. An empty name maps to
// StyleStraight.
func (s *LinkStyle) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "", "straight":
		*s = StyleStraight
	case "curved":
		*s = StyleCurved
	case "custom":
		*s = StyleCustom
	default:
		return fmt.Errorf("unknown link style: %q", name)
	}
	return nil
}

// Device represents a piece of network equipment placed on the map.
type Device struct {
	ID       string       `json:"id"`
	Label    string       `json:"label,omitempty"`
	Position Coordinate   `json:"position"`
	Status   DeviceStatus `json:"status"`
	Width    float64      `json:"width,omitempty"`  // Rendered footprint, map units
	Height   float64      `json:"height,omitempty"` // Rendered footprint, map units
}

// Link represents an edge between two devices. Links are identified by their
// ordered (Source, Target) pair; the reversed pair is a distinct link.
type Link struct {
	Source    string       `json:"source"`
	Target    string       `json:"target"`
	Style     LinkStyle    `json:"style"`
	Waypoints []Coordinate `json:"waypoints,omitempty"` // Only meaningful while Style is StyleCustom
	Curvy     bool         `json:"curvy,omitempty"`     // Smooth the custom polyline with a spline
}

// Connects reports whether the link starts or ends at the given device.
func (l Link) Connects(deviceID string) bool {
	return l.Source == deviceID || l.Target == deviceID
}

// Key returns the canonical string identity of the link.
func (l Link) Key() string {
	return l.Source + "->" + l.Target
}

// Map represents a complete network map document.
type Map struct {
	Devices  []Device `json:"devices"`
	Links    []Link   `json:"links"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Metadata contains optional map metadata.
type Metadata struct {
	Name    string `json:"name,omitempty"`
	Created string `json:"created,omitempty"`
	Version string `json:"version,omitempty"`
}

// New returns an empty map.
func New() *Map {
	return &Map{
		Devices: []Device{},
		Links:   []Link{},
	}
}

// Clone creates a deep copy of the map.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}

	clone := &Map{
		Devices:  make([]Device, len(m.Devices)),
		Links:    make([]Link, len(m.Links)),
		Metadata: m.Metadata, // Metadata is a simple struct, can be copied directly
	}
	copy(clone.Devices, m.Devices)

	// Links carry a waypoint slice that must be copied deeply.
	for i, l := range m.Links {
		clone.Links[i] = l
		if l.Waypoints != nil {
			clone.Links[i].Waypoints = make([]Coordinate, len(l.Waypoints))
			copy(clone.Links[i].Waypoints, l.Waypoints)
		}
	}

	return clone
}
