// Package config loads server configuration from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML structure.
type Config struct {
	Server    ServerConf    `yaml:"server"`
	Workspace WorkspaceConf `yaml:"workspace"`
	Log       LogConf       `yaml:"log"`
}

// ServerConf holds HTTP listener settings.
type ServerConf struct {
	Addr            string `yaml:"addr"`
	ShutdownGraceMs int    `yaml:"shutdown_grace_ms"`
}

// WorkspaceConf points the server at its map document.
type WorkspaceConf struct {
	Path     string `yaml:"path"`
	Watch    bool   `yaml:"watch"`    // hot-reload the document when the file changes
	Autosave bool   `yaml:"autosave"` // write the document back after every mutation
}

// LogConf controls log output.
type LogConf struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:    ServerConf{Addr: ":8080", ShutdownGraceMs: 5000},
		Workspace: WorkspaceConf{Path: "map.json", Watch: true},
		Log:       LogConf{Level: "info"},
	}
}

// Load reads a YAML config file and applies defaults to omitted fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	// Apply defaults.
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ShutdownGraceMs == 0 {
		cfg.Server.ShutdownGraceMs = 5000
	}
	if cfg.Workspace.Path == "" {
		cfg.Workspace.Path = "map.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return &cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func Validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if cfg.Workspace.Path == "" {
		return fmt.Errorf("workspace.path is required")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", cfg.Log.Level)
	}
	return nil
}

// SlogLevel converts the configured level name for slog.
func (l LogConf) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
