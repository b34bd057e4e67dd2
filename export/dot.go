package export

import (
	"fmt"
	"strings"

	"github.com/phyoewaiaung/network-map/netmap"
)

// DOTExporter exports map topology to Graphviz DOT syntax. Geographic
// positions and path geometry are dropped; Graphviz lays the graph out
// itself.
type DOTExporter struct{}

// NewDOTExporter creates a new DOT exporter
func NewDOTExporter() *DOTExporter {
	return &DOTExporter{}
}

// Export converts the map to Graphviz DOT syntax
func (e *DOTExporter) Export(m *netmap.Map) (string, error) {
	if m == nil {
		return "", fmt.Errorf("map is nil")
	}

	if len(m.Devices) == 0 {
		return "", fmt.Errorf("map has no devices")
	}

	var sb strings.Builder

	// Start digraph
	sb.WriteString("digraph netmap {\n")

	// Global attributes for better appearance
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=\"filled,rounded\"];\n")
	sb.WriteString("  edge [arrowhead=normal];\n\n")

	// Process devices
	for _, d := range m.Devices {
		label := e.deviceLabel(d)
		sb.WriteString(fmt.Sprintf("  %s [label=\"%s\", fillcolor=\"#%s\"];\n",
			e.nodeID(d.ID), label, statusColor(d.Status)))
	}

	// Add blank line between devices and links
	if len(m.Links) > 0 {
		sb.WriteString("\n")
	}

	// Process links
	for _, l := range m.Links {
		attributes := e.edgeAttributes(l)
		if attributes != "" {
			sb.WriteString(fmt.Sprintf("  %s -> %s [%s];\n", e.nodeID(l.Source), e.nodeID(l.Target), attributes))
		} else {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", e.nodeID(l.Source), e.nodeID(l.Target)))
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// nodeID returns a valid DOT node identifier. Device ids contain hyphens,
// so they are always quoted.
func (e *DOTExporter) nodeID(id string) string {
	return fmt.Sprintf("%q", id)
}

// deviceLabel extracts a display label from a device
func (e *DOTExporter) deviceLabel(d netmap.Device) string {
	if d.Label != "" {
		return e.escapeLabel(d.Label)
	}
	// Unlabeled devices show a shortened id.
	if len(d.ID) > 8 {
		return d.ID[:8]
	}
	return d.ID
}

// escapeLabel escapes special characters in labels
func (e *DOTExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return label
}

// edgeAttributes builds DOT attributes from the link's path style
func (e *DOTExporter) edgeAttributes(l netmap.Link) string {
	var attrs []string

	switch l.Style {
	case netmap.StyleCurved:
		attrs = append(attrs, "style=dashed")
	case netmap.StyleCustom:
		attrs = append(attrs, "style=bold")
		if len(l.Waypoints) > 0 {
			attrs = append(attrs, fmt.Sprintf("label=\"%d waypoints\"", len(l.Waypoints)))
		}
	}

	return strings.Join(attrs, ", ")
}

// statusColor maps device statuses to fill colors
func statusColor(s netmap.DeviceStatus) string {
	switch s {
	case netmap.StatusConnected:
		return "51CF66"
	case netmap.StatusDisabled:
		return "868E96"
	default:
		return "339AF0"
	}
}

// GetFileExtension returns the recommended file extension
func (e *DOTExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *DOTExporter) GetFormatName() string {
	return "Graphviz"
}
