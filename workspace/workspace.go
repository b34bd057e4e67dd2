// Package workspace persists map documents as JSON files and keeps loaded
// documents structurally sound.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/phyoewaiaung/network-map/netmap"
)

// Decode parses a native JSON map document and normalizes it.
func Decode(data []byte) (*netmap.Map, error) {
	var m netmap.Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	Normalize(&m)
	return &m, nil
}

// Load reads a map document from disk.
func Load(path string) (*netmap.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing map file: %w", err)
	}
	return m, nil
}

// Save writes the map to disk as indented JSON.
func Save(path string, m *netmap.Map) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize repairs a document in place: nil collections become empty ones,
// devices without ids get generated ones, exact-duplicate links collapse to
// their first occurrence, and waypoints stored on non-custom links are
// dropped. Hand-written and imported documents pass through here before the
// rest of the system sees them.
func Normalize(m *netmap.Map) {
	if m.Devices == nil {
		m.Devices = []netmap.Device{}
	}
	if m.Links == nil {
		m.Links = []netmap.Link{}
	}

	for i := range m.Devices {
		if m.Devices[i].ID == "" {
			m.Devices[i].ID = uuid.New().String()
		}
	}

	seen := make(map[string]bool)
	links := make([]netmap.Link, 0, len(m.Links))
	for _, l := range m.Links {
		if seen[l.Key()] {
			continue
		}
		seen[l.Key()] = true
		if l.Style != netmap.StyleCustom {
			l.Waypoints = nil
		}
		links = append(links, l)
	}
	m.Links = links
}

// Validate checks a map document for structural problems.
func Validate(m *netmap.Map) error {
	// Check for missing and duplicate device ids.
	ids := make(map[string]bool)
	for i, d := range m.Devices {
		if d.ID == "" {
			return fmt.Errorf("device %d has no id", i)
		}
		if ids[d.ID] {
			return fmt.Errorf("duplicate device id: %s", d.ID)
		}
		ids[d.ID] = true
	}

	// Check that links reference existing devices exactly once per pair.
	pairs := make(map[string]bool)
	for i, l := range m.Links {
		if !ids[l.Source] {
			return fmt.Errorf("link %d references non-existent source device: %s", i, l.Source)
		}
		if !ids[l.Target] {
			return fmt.Errorf("link %d references non-existent target device: %s", i, l.Target)
		}
		if pairs[l.Key()] {
			return fmt.Errorf("duplicate link: %s", l.Key())
		}
		pairs[l.Key()] = true
	}

	return nil
}
