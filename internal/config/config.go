// Package config handles TOML-based configuration loading and validation.
// The file is parsed as data only and is never written back.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"capframe/internal/httputil"
	"capframe/internal/media"
)

const appName = "capframe"

// Config holds all application configuration.
type Config struct {
	Listen      string             `toml:"listen"`
	Preset      string             `toml:"preset"`
	Scale       media.ScaleMode    `toml:"scale"`
	Browser     string             `toml:"browser"`
	OpenBrowser bool               `toml:"open_browser"`
	History     bool               `toml:"history"`
	Debug       bool               `toml:"debug"`
	Presets     []media.SizePreset `toml:"presets"`
}

// Browsers lists the supported capture window launchers.
var Browsers = []string{"chromium", "google-chrome", "firefox", "xdg-open"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Listen:      "127.0.0.1:8787",
		Preset:      "720p",
		Scale:       media.ScaleFit,
		Browser:     "chromium",
		OpenBrowser: false,
		History:     true,
		Debug:       false,
		Presets:     media.DefaultPresets(),
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// A [[presets]] table in the file replaces the built-in list entirely.
	cfg.Presets = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = media.DefaultPresets()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if err := httputil.ValidateListenAddr(c.Listen); err != nil {
		return err
	}

	if !c.Scale.Valid() {
		return fmt.Errorf("unsupported scale %q (valid: fit, fill, stretch)", c.Scale)
	}

	validBrowser := false
	for _, b := range Browsers {
		if strings.EqualFold(c.Browser, b) {
			validBrowser = true
			break
		}
	}
	if !validBrowser {
		return fmt.Errorf("unsupported browser %q (valid: %s)", c.Browser, strings.Join(Browsers, ", "))
	}

	if len(c.Presets) == 0 {
		return fmt.Errorf("at least one size preset is required")
	}
	seen := make(map[string]bool, len(c.Presets))
	for _, p := range c.Presets {
		name := strings.ToLower(p.Name)
		if name == "" {
			return fmt.Errorf("preset name cannot be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate preset %q", p.Name)
		}
		seen[name] = true
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("preset %q has invalid size %dx%d", p.Name, p.Width, p.Height)
		}
	}

	if _, ok := c.FindPreset(c.Preset); !ok {
		return fmt.Errorf("unknown preset %q (valid: %s)", c.Preset, strings.Join(c.PresetNames(), ", "))
	}

	return nil
}

// FindPreset looks up a preset by case-insensitive name.
func (c *Config) FindPreset(name string) (media.SizePreset, bool) {
	for _, p := range c.Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return media.SizePreset{}, false
}

// PresetNames returns the preset names in configured order.
func (c *Config) PresetNames() []string {
	names := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		names[i] = p.Name
	}
	return names
}

// dataDir returns $XDG_DATA_HOME/capframe or its default.
func dataDir() (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, appName), nil
}

// HistoryPath returns the path to the history database.
func HistoryPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath returns the log file used while the control panel owns the terminal.
func LogPath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, appName, appName+".log"), nil
}
