package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phyoewaiaung/network-map/netmap"
	"github.com/phyoewaiaung/network-map/workspace"
)

// GeoJSONImporter reads GeoJSON FeatureCollections. Point features become
// devices and LineString features with source/target properties become
// links; rendered LineString samples are discarded in favour of the
// waypoint property, since samples are derived data.
type GeoJSONImporter struct{}

// NewGeoJSONImporter creates a new GeoJSON importer
func NewGeoJSONImporter() *GeoJSONImporter {
	return &GeoJSONImporter{}
}

// CanImport checks whether the content looks like GeoJSON
func (i *GeoJSONImporter) CanImport(content string) bool {
	return strings.Contains(content, `"FeatureCollection"`)
}

type geoFeature struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Kind      string       `json:"kind"`
		ID        string       `json:"id"`
		Label     string       `json:"label"`
		Status    string       `json:"status"`
		Source    string       `json:"source"`
		Target    string       `json:"target"`
		Style     string       `json:"style"`
		Curvy     bool         `json:"curvy"`
		Waypoints [][2]float64 `json:"waypoints"`
	} `json:"properties"`
}

// Import converts a FeatureCollection into a map document
func (i *GeoJSONImporter) Import(content string) (*netmap.Map, error) {
	var fc struct {
		Type     string       `json:"type"`
		Features []geoFeature `json:"features"`
	}
	if err := json.Unmarshal([]byte(content), &fc); err != nil {
		return nil, fmt.Errorf("parsing geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("not a FeatureCollection: %q", fc.Type)
	}

	m := netmap.New()
	for idx, f := range fc.Features {
		switch f.Geometry.Type {
		case "Point":
			var pos [2]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &pos); err != nil {
				return nil, fmt.Errorf("feature %d: parsing point coordinates: %w", idx, err)
			}
			m.Devices = append(m.Devices, netmap.Device{
				ID:    f.Properties.ID,
				Label: f.Properties.Label,
				// GeoJSON positions are longitude-first.
				Position: netmap.Coordinate{Lat: pos[1], Lng: pos[0]},
				Status:   parseStatus(f.Properties.Status),
			})
		case "LineString":
			// Lines without link endpoints are foreign annotation
			// layers; skip them.
			if f.Properties.Source == "" || f.Properties.Target == "" {
				continue
			}
			l := netmap.Link{
				Source: f.Properties.Source,
				Target: f.Properties.Target,
				Style:  parseStyle(f.Properties.Style),
				Curvy:  f.Properties.Curvy,
			}
			if l.Style == netmap.StyleCustom {
				for _, w := range f.Properties.Waypoints {
					l.Waypoints = append(l.Waypoints, netmap.Coordinate{Lat: w[1], Lng: w[0]})
				}
			}
			m.Links = append(m.Links, l)
		}
	}

	workspace.Normalize(m)
	return m, nil
}

// parseStatus maps a status property to a DeviceStatus, defaulting to
// available for foreign values.
func parseStatus(name string) netmap.DeviceStatus {
	switch name {
	case "connected":
		return netmap.StatusConnected
	case "disabled":
		return netmap.StatusDisabled
	default:
		return netmap.StatusAvailable
	}
}

// parseStyle maps a style property to a LinkStyle, defaulting to straight
// for foreign values.
func parseStyle(name string) netmap.LinkStyle {
	switch name {
	case "curved":
		return netmap.StyleCurved
	case "custom":
		return netmap.StyleCustom
	default:
		return netmap.StyleStraight
	}
}

// GetFormatName returns the format name
func (i *GeoJSONImporter) GetFormatName() string {
	return "GeoJSON"
}

// GetFileExtensions returns common file extensions
func (i *GeoJSONImporter) GetFileExtensions() []string {
	return []string{".geojson", ".json"}
}
