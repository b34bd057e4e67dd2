package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "workspace:\n  path: maps/prod.json\n  autosave: true\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Workspace.Path != "maps/prod.json" {
		t.Errorf("Expected configured path, got %q", cfg.Workspace.Path)
	}
	if !cfg.Workspace.Autosave {
		t.Error("Expected autosave to be enabled")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownGraceMs != 5000 {
		t.Errorf("Expected default grace, got %d", cfg.Server.ShutdownGraceMs)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level, got %q", cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if _, err := Load(writeConfig(t, "server: [not a map]")); err == nil {
		t.Error("Expected an error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Errorf("Default config rejected: %v", err)
	}

	bad := Default()
	bad.Log.Level = "loud"
	if err := Validate(bad); err == nil {
		t.Error("Expected an unknown log level to fail validation")
	}

	bare := &Config{}
	if err := Validate(bare); err == nil {
		t.Error("Expected an empty config to fail validation")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (LogConf{Level: tt.name}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
