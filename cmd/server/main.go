// Command server runs the network map HTTP API.
//
// It loads a map document from disk, serves the editing endpoints over
// HTTP, and optionally watches the document for external changes.
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
	"syscall"
	"time"

	"github.com/phyoewaiaung/network-map/api"
	"github.com/phyoewaiaung/network-map/config"
	"github.com/phyoewaiaung/network-map/editor"
	"github.com/phyoewaiaung/network-map/netmap"
	"github.com/phyoewaiaung/network-map/workspace"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file (optional)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	// ── Configuration ──────────────────────────────────────────────

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// ── Document ───────────────────────────────────────────────────

	loader, err := workspace.NewLoader(cfg.Workspace.Path)
	if err != nil {
		slog.Error("failed to load map document", "path", cfg.Workspace.Path, "error", err)
		os.Exit(1)
	}
	// Structural problems are survivable (dangling links just don't draw),
	// but worth a warning at startup.
	if err := workspace.Validate(loader.Map()); err != nil {
		slog.Warn("map document has structural problems", "path", cfg.Workspace.Path, "error", err)
	}

	session := editor.NewSession(loader.Map())
	handler := api.New(session, loader)
	if cfg.Workspace.Autosave {
		handler.EnableAutosave()
	}

	loader.OnChange(func(m *netmap.Map) {
		handler.SwapMap(m)
		slog.Info("map document reloaded", "path", loader.Path(),
			"devices", len(m.Devices), "links", len(m.Links))
	})

	if cfg.Workspace.Watch {
		stopWatch, err := loader.Watch()
		if err != nil {
			slog.Warn("file watching unavailable", "error", err)
		} else {
			defer stopWatch()
		}
	}

	// ── HTTP server ────────────────────────────────────────────────

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr, "map", cfg.Workspace.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ──────────────────────────────────────────

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	grace := time.Duration(cfg.Server.ShutdownGraceMs) * time.Millisecond
	shutCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
