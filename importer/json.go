package importer

import (
	"fmt"
	"strings"

	"github.com/phyoewaiaung/network-map/netmap"
	"github.com/phyoewaiaung/network-map/workspace"
)

// JSONImporter reads the native map document format
type JSONImporter struct{}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport checks whether the content looks like a native map document
func (i *JSONImporter) CanImport(content string) bool {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	return strings.Contains(trimmed, `"devices"`) || strings.Contains(trimmed, `"links"`)
}

// Import parses a native map document
func (i *JSONImporter) Import(content string) (*netmap.Map, error) {
	m, err := workspace.Decode([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("parsing map document: %w", err)
	}
	return m, nil
}

// GetFormatName returns the format name
func (i *JSONImporter) GetFormatName() string {
	return "JSON"
}

// GetFileExtensions returns common file extensions
func (i *JSONImporter) GetFileExtensions() []string {
	return []string{".json"}
}
