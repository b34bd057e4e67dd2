package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/phyoewaiaung/network-map/api"
	"github.com/phyoewaiaung/network-map/editor"
	"github.com/phyoewaiaung/network-map/export"
	"github.com/phyoewaiaung/network-map/geometry"
	"github.com/phyoewaiaung/network-map/importer"
	"github.com/phyoewaiaung/network-map/netmap"
	"github.com/phyoewaiaung/network-map/tui"
	"github.com/phyoewaiaung/network-map/ui"
	"github.com/phyoewaiaung/network-map/workspace"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Edit the map in the terminal UI")
		edit        = flag.Bool("edit", false, "Edit the map in the terminal UI (same as -i)")
		validate    = flag.Bool("validate", false, "Validate the map document and exit")
		stats       = flag.Bool("stats", false, "Print a summary of devices and links")
		serve       = flag.Bool("serve", false, "Serve the map over the HTTP editing API")
		addr        = flag.String("addr", ":8080", "Listen address for -serve")
		help        = flag.Bool("help", false, "Show help")

		// Export flags
		format     = flag.String("format", "json", "Export format: json, geojson, dot")
		outputFile = flag.String("o", "", "Output file (default: stdout)")

		// Import flags
		inputFormat = flag.String("input-format", "", "Input format: json, geojson (auto-detect if not specified)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [map.json]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "An interactive editor for network maps with sculptable link paths.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                          # Start the editor with an empty map\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i map.json              # Edit a map in the terminal\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -stats map.json          # Summarize the map\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -validate map.json       # Check document structure\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -format geojson map.json # Export to GeoJSON\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -format dot -o map.gv map.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -serve map.json          # Serve the HTTP editing API\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s map.geojson              # Auto-detect format by extension\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nThe config-driven server lives in cmd/server.\n")
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	var filename string
	if len(args) > 0 {
		filename = args[0]
	}

	if *serve {
		if err := runServe(filename, *addr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Interactive mode, also the default when nothing else was asked for.
	if *interactive || *edit || (len(args) == 0 && !*validate && !*stats) {
		if err := runEditor(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if filename == "" {
		fmt.Fprintf(os.Stderr, "Error: Please provide a map document\n\n")
		flag.Usage()
		os.Exit(1)
	}

	m, err := loadMap(filename, *inputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading map: %v\n", err)
		os.Exit(1)
	}

	if *validate {
		if err := workspace.Validate(m); err != nil {
			fmt.Printf("%s %s: %v\n", ui.StatusIcon(false), filename, err)
			os.Exit(2)
		}
		fmt.Printf("%s %s: %d devices, %d links\n", ui.StatusIcon(true), filename, len(m.Devices), len(m.Links))
		os.Exit(0)
	}

	if *stats {
		printStats(filename, m)
		os.Exit(0)
	}

	exportFormat, err := export.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Available formats: json, geojson, dot\n")
		os.Exit(1)
	}

	exporter, err := export.NewExporter(exportFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating exporter: %v\n", err)
		os.Exit(1)
	}

	output, err := exporter.Export(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting map: %v\n", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully exported to %s\n", *outputFile)
	} else {
		fmt.Println(output)
	}
}

// loadMap reads a map document, importing from other formats when asked to
// or when the extension suggests one.
func loadMap(filename, inputFormat string) (*netmap.Map, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	if inputFormat != "" && inputFormat != "json" {
		registry := importer.NewImporterRegistry()
		m, err := registry.ImportWithFormat(string(data), inputFormat)
		if err != nil {
			return nil, fmt.Errorf("importing map: %w", err)
		}
		return m, nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".geojson" {
		registry := importer.NewImporterRegistry()
		m, err := registry.Import(string(data))
		if err != nil {
			return nil, fmt.Errorf("importing map: %w", err)
		}
		return m, nil
	}

	m, err := workspace.Decode(data)
	if err != nil {
		// Not a native document; maybe it is an importable format with an
		// unhelpful extension.
		registry := importer.NewImporterRegistry()
		if imported, impErr := registry.Import(string(data)); impErr == nil {
			return imported, nil
		}
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return m, nil
}

// runEditor launches the terminal editor, backed by a file when one was
// given.
func runEditor(filename string) error {
	if filename == "" {
		return tui.Run(editor.NewSession(netmap.New()), nil)
	}

	loader, err := workspace.NewLoader(filename)
	if err != nil {
		return fmt.Errorf("loading map: %w", err)
	}
	return tui.Run(editor.NewSession(loader.Map()), loader)
}

// runServe starts the HTTP editing API with flag-level defaults. The
// config-driven variant of this host is cmd/server.
func runServe(filename, addr string) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		loader  *workspace.Loader
		session *editor.Session
	)
	if filename == "" {
		session = editor.NewSession(netmap.New())
	} else {
		var err error
		loader, err = workspace.NewLoader(filename)
		if err != nil {
			return fmt.Errorf("loading map: %w", err)
		}
		session = editor.NewSession(loader.Map())
	}
	handler := api.New(session, loader)

	if loader != nil {
		loader.OnChange(func(m *netmap.Map) {
			handler.SwapMap(m)
			slog.Info("map document reloaded", "path", loader.Path())
		})
		if stopWatch, err := loader.Watch(); err != nil {
			slog.Warn("file watching unavailable", "error", err)
		} else {
			defer stopWatch()
		}
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		slog.Info("server listening", "addr", addr, "map", filename)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func printStats(filename string, m *netmap.Map) {
	name := m.Metadata.Name
	if name == "" {
		name = filepath.Base(filename)
	}
	ui.Banner(name)

	rows := make([][]string, 0, len(m.Devices))
	for _, d := range m.Devices {
		label := d.Label
		if label == "" {
			label = "(unnamed)"
		}
		rows = append(rows, []string{
			shortID(d.ID),
			label,
			fmt.Sprintf("%.4f, %.4f", d.Position.Lat, d.Position.Lng),
			ui.StatusDot(d.Status) + " " + d.Status.String(),
		})
	}
	ui.Table([]string{"ID", "LABEL", "POSITION", "STATUS"}, rows)

	fmt.Println()
	session := editor.NewSession(m)
	linkRows := make([][]string, 0, len(m.Links))
	for _, l := range m.Links {
		length := "-"
		if path, ok := session.RenderPath(l); ok {
			length = fmt.Sprintf("%.3f", geometry.Length(path))
		}
		linkRows = append(linkRows, []string{
			shortID(l.Source) + " -> " + shortID(l.Target),
			length,
			ui.StyleTag(l),
		})
	}
	ui.Table([]string{"LINK", "LENGTH", "STYLE"}, linkRows)

	fmt.Printf("\n  %d devices, %d links\n", len(m.Devices), len(m.Links))
}

// shortID trims generated uuids down to a readable prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
