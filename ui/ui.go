// Package ui holds terminal output helpers shared by the command line
// tools.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/phyoewaiaung/network-map/netmap"
)

var (
	Title  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
	Accent = color.New(color.FgBlue)
)

// Banner prints the tool banner with a subtitle.
func Banner(subtitle string) {
	fmt.Printf("%s %s\n\n", Title.Sprint("netmap"), Subtle.Sprint(subtitle))
}

// StatusDot returns a colored marker for a device status.
func StatusDot(status netmap.DeviceStatus) string {
	switch status {
	case netmap.StatusConnected:
		return Good.Sprint("●")
	case netmap.StatusDisabled:
		return Subtle.Sprint("●")
	default:
		return Accent.Sprint("●")
	}
}

// StyleTag returns a short label for a link style, dimmed for plain
// straight links so sculpted ones stand out in listings.
func StyleTag(l netmap.Link) string {
	switch l.Style {
	case netmap.StyleCurved:
		return Accent.Sprint("curved")
	case netmap.StyleCustom:
		if l.Curvy {
			return Warn.Sprintf("custom(%d, smooth)", len(l.Waypoints))
		}
		return Warn.Sprintf("custom(%d)", len(l.Waypoints))
	default:
		return Subtle.Sprint("straight")
	}
}

// Table prints a simple aligned table.
func Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Println(headerLine)
	Subtle.Println(sepLine)

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println(line)
	}
}

// StatusIcon returns a pass or fail marker.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}
