package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xqrs/vscroll/internal/config"
)

func TestLoadDefaultConfigWhenMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false, got true")
	}
	wantPath := filepath.Join(tempHome, ".config", "vscroll", "config.toml")
	if path != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", path, wantPath)
	}
	if cfg.List.ItemHeight != 1 || cfg.List.Overscan != 3 || !cfg.List.SmoothScroll {
		t.Fatalf("unexpected list defaults: %+v", cfg.List)
	}
	if cfg.Store.Backend != "file" {
		t.Fatalf("unexpected store backend %q", cfg.Store.Backend)
	}
	wantStore := filepath.Join(tempHome, ".local", "state", "vscroll", "positions.toml")
	if cfg.Store.Path != wantStore {
		t.Fatalf("unexpected store path: got %q want %q", cfg.Store.Path, wantStore)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigOverridesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[list]
item_height = 2
overscan = 5
smooth_scroll = false
persist_key = "  inbox  "
role = "LOG"

[store]
backend = "sqlite"

[logging]
format = "json"
level = "DEBUG"
file = "~/vscroll.log"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, path, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || path != configPath {
		t.Fatalf("unexpected resolution: path=%q exists=%v", path, exists)
	}
	if cfg.List.ItemHeight != 2 || cfg.List.Overscan != 5 || cfg.List.SmoothScroll {
		t.Fatalf("unexpected list values: %+v", cfg.List)
	}
	if cfg.List.PersistKey != "inbox" {
		t.Fatalf("expected trimmed persist key, got %q", cfg.List.PersistKey)
	}
	if cfg.List.Role != "log" {
		t.Fatalf("expected lowercased role, got %q", cfg.List.Role)
	}
	if cfg.Store.Path != filepath.Join(tempHome, ".local", "state", "vscroll", "positions.db") {
		t.Fatalf("unexpected sqlite default path %q", cfg.Store.Path)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging values: %+v", cfg.Logging)
	}
	if cfg.Logging.File != filepath.Join(tempHome, "vscroll.log") {
		t.Fatalf("expected expanded log file, got %q", cfg.Logging.File)
	}
}

func TestLoadPrefersProjectConfigWhenHomeMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)

	if err := os.WriteFile(filepath.Join(project, "vscroll.toml"), []byte("[list]\noverscan = 7\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(path) != "vscroll.toml" {
		t.Fatalf("expected project config, got path=%q exists=%v", path, exists)
	}
	if cfg.List.Overscan != 7 {
		t.Fatalf("expected overscan 7, got %d", cfg.List.Overscan)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[list]\nitem_hieght = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"item height", func(c *config.Config) { c.List.ItemHeight = 0 }, "item_height"},
		{"overscan", func(c *config.Config) { c.List.Overscan = -1 }, "overscan"},
		{"role", func(c *config.Config) { c.List.Role = "grid" }, "role"},
		{"border", func(c *config.Config) { c.List.Border = "dotted" }, "border"},
		{"backend", func(c *config.Config) { c.Store.Backend = "redis" }, "backend"},
		{"store path", func(c *config.Config) { c.Store.Backend = "sqlite"; c.Store.Path = "" }, "store.path"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "format"},
		{"level", func(c *config.Config) { c.Logging.Level = "verbose" }, "level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Path = "/tmp/positions.toml"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.List.ItemHeight != 1 || cfg.Store.Backend != "file" {
		t.Fatalf("unexpected sample values: %+v", cfg)
	}
}
