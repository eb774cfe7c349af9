package config

import (
	"os"
	"path/filepath"
	"testing"

	"capframe/internal/media"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != "127.0.0.1:8787" {
		t.Errorf("default listen = %q, want 127.0.0.1:8787", cfg.Listen)
	}
	if cfg.Preset != "720p" {
		t.Errorf("default preset = %q, want 720p", cfg.Preset)
	}
	if cfg.Scale != media.ScaleFit {
		t.Errorf("default scale = %q, want fit", cfg.Scale)
	}
	if !cfg.History {
		t.Error("default history should be true")
	}
	if len(cfg.Presets) != 4 {
		t.Errorf("default presets = %d, want 4", len(cfg.Presets))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"invalid listen", func(c *Config) { c.Listen = "nowhere" }, true},
		{"invalid scale", func(c *Config) { c.Scale = "zoom" }, true},
		{"invalid browser", func(c *Config) { c.Browser = "netscape" }, true},
		{"unknown preset", func(c *Config) { c.Preset = "4k" }, true},
		{"no presets", func(c *Config) { c.Presets = nil }, true},
		{"zero size preset", func(c *Config) { c.Presets[0].Width = 0 }, true},
		{"duplicate preset", func(c *Config) { c.Presets[1].Name = "360P" }, true},
		{"empty preset name", func(c *Config) { c.Presets[0].Name = "" }, true},
		{"valid firefox", func(c *Config) { c.Browser = "firefox" }, false},
		{"valid fill", func(c *Config) { c.Scale = media.ScaleFill }, false},
		{"preset case insensitive", func(c *Config) { c.Preset = "1080P" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "capframe")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromTOML(t *testing.T) {
	writeConfig(t, `
listen = "127.0.0.1:9000"
preset = "1080p"
scale = "stretch"
browser = "firefox"
open_browser = true
history = false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Listen != "127.0.0.1:9000" {
		t.Errorf("listen = %q, want 127.0.0.1:9000", cfg.Listen)
	}
	if cfg.Preset != "1080p" {
		t.Errorf("preset = %q, want 1080p", cfg.Preset)
	}
	if cfg.Scale != media.ScaleStretch {
		t.Errorf("scale = %q, want stretch", cfg.Scale)
	}
	if cfg.Browser != "firefox" {
		t.Errorf("browser = %q, want firefox", cfg.Browser)
	}
	if !cfg.OpenBrowser {
		t.Error("open_browser should be true")
	}
	if cfg.History {
		t.Error("history should be false")
	}
	if len(cfg.Presets) != len(media.DefaultPresets()) {
		t.Errorf("presets = %d, want built-in list", len(cfg.Presets))
	}
}

func TestLoadCustomPresets(t *testing.T) {
	writeConfig(t, `
preset = "vertical"

[[presets]]
name = "vertical"
width = 1080
height = 1920

[[presets]]
name = "square"
width = 1080
height = 1080
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Presets) != 2 {
		t.Fatalf("presets = %d, want 2", len(cfg.Presets))
	}
	p, ok := cfg.FindPreset("VERTICAL")
	if !ok {
		t.Fatal("vertical preset not found")
	}
	if p.Size() != (media.DisplaySize{Width: 1080, Height: 1920}) {
		t.Errorf("vertical size = %v", p.Size())
	}
	if _, ok := cfg.FindPreset("720p"); ok {
		t.Error("custom presets should replace the built-ins")
	}
}

func TestLoadInvalid(t *testing.T) {
	writeConfig(t, `scale = "zoom"`)
	if _, err := Load(); err == nil {
		t.Error("Load() should reject an unknown scale")
	}

	writeConfig(t, `listen = [`)
	if _, err := Load(); err == nil {
		t.Error("Load() should reject malformed TOML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if cfg.Preset != "720p" {
		t.Errorf("missing file should return defaults, got preset = %q", cfg.Preset)
	}
}

func TestPaths(t *testing.T) {
	data := t.TempDir()
	state := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("XDG_STATE_HOME", state)

	hp, err := HistoryPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(data, "capframe", "history.db"); hp != want {
		t.Errorf("HistoryPath() = %q, want %q", hp, want)
	}

	lp, err := LogPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(state, "capframe", "capframe.log"); lp != want {
		t.Errorf("LogPath() = %q, want %q", lp, want)
	}
}
