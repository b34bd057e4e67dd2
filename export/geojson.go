package export

import (
	"encoding/json"
	"fmt"

	"github.com/phyoewaiaung/network-map/geometry"
	"github.com/phyoewaiaung/network-map/netmap"
)

// GeoJSONExporter exports maps as a GeoJSON FeatureCollection: one Point
// feature per device and one LineString feature per drawable link, carrying
// the fully rendered path so GIS tools show the same curves the editor does.
type GeoJSONExporter struct{}

// NewGeoJSONExporter creates a new GeoJSON exporter
func NewGeoJSONExporter() *GeoJSONExporter {
	return &GeoJSONExporter{}
}

type geoFeatureCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

type geoFeature struct {
	Type       string         `json:"type"`
	Geometry   geoGeometry    `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geoGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Export converts a map to GeoJSON. Links with a missing endpoint device
// have no renderable geometry and are skipped.
func (e *GeoJSONExporter) Export(m *netmap.Map) (string, error) {
	if m == nil {
		return "", fmt.Errorf("map is nil")
	}

	fc := geoFeatureCollection{
		Type:     "FeatureCollection",
		Features: []geoFeature{},
	}

	for _, d := range m.Devices {
		fc.Features = append(fc.Features, geoFeature{
			Type: "Feature",
			Geometry: geoGeometry{
				Type:        "Point",
				Coordinates: position(d.Position),
			},
			Properties: map[string]any{
				"kind":   "device",
				"id":     d.ID,
				"label":  d.Label,
				"status": d.Status.String(),
			},
		})
	}

	for _, l := range m.Links {
		src, okA := m.Device(l.Source)
		tgt, okB := m.Device(l.Target)
		if !okA || !okB {
			continue
		}
		path := geometry.Render(l, src.Position, tgt.Position)
		coords := make([][2]float64, len(path))
		for i, p := range path {
			coords[i] = position(p)
		}
		props := map[string]any{
			"kind":   "link",
			"source": l.Source,
			"target": l.Target,
			"style":  l.Style.String(),
			"curvy":  l.Curvy,
		}
		// The LineString holds rendered samples; the editable waypoints
		// ride along as a property so the document can be re-imported.
		if l.Style == netmap.StyleCustom && len(l.Waypoints) > 0 {
			wps := make([][2]float64, len(l.Waypoints))
			for i, w := range l.Waypoints {
				wps[i] = position(w)
			}
			props["waypoints"] = wps
		}
		fc.Features = append(fc.Features, geoFeature{
			Type: "Feature",
			Geometry: geoGeometry{
				Type:        "LineString",
				Coordinates: coords,
			},
			Properties: props,
		})
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// position converts a coordinate to GeoJSON's longitude-first ordering.
func position(c netmap.Coordinate) [2]float64 {
	return [2]float64{c.Lng, c.Lat}
}

// GetFileExtension returns the file extension for GeoJSON
func (e *GeoJSONExporter) GetFileExtension() string {
	return ".geojson"
}

// GetFormatName returns the format name
func (e *GeoJSONExporter) GetFormatName() string {
	return "GeoJSON"
}
