// Package export converts map documents to interchange formats.
package export

import (
	"fmt"

	"github.com/phyoewaiaung/network-map/netmap"
)

// Format represents an export format
type Format string

const (
	// FormatJSON exports the native map document format
	FormatJSON Format = "json"
	// FormatGeoJSON exports a GeoJSON FeatureCollection with rendered paths
	FormatGeoJSON Format = "geojson"
	// FormatDOT exports Graphviz DOT syntax (topology only)
	FormatDOT Format = "dot"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a map to the target format
	Export(m *netmap.Map) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatGeoJSON:
		return NewGeoJSONExporter(), nil
	case FormatDOT:
		return NewDOTExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "geojson", "geo":
		return FormatGeoJSON, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatJSON,
		FormatGeoJSON,
		FormatDOT,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatJSON:    "Native map document (JSON)",
		FormatGeoJSON: "GeoJSON FeatureCollection with rendered link paths",
		FormatDOT:     "Graphviz DOT syntax (topology only)",
	}
}
