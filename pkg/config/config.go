// Package config holds persistent nodeedit settings.
//
// Settings live in ~/.nodeedit as a small TOML subset (key = "value" lines).
// NODEEDIT_* environment variables override the file; a .env file in the
// working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds persistent editor and tool settings
type Config struct {
	Backend      string // "raster" or "vector"
	LinkModifier string // "ctrl", "shift" or "alt"
	Width        int    // export width, 0 fits the scene
	Height       int    // export height, 0 fits the scene
	LastDir      string // last export directory
	Addr         string // nodetool serve listen address
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	return Config{
		Backend:      "raster",
		LinkModifier: "ctrl",
		LastDir:      cwd,
		Addr:         ":8080",
	}
}

// Path returns the path to the config file
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nodeedit"
	}
	return filepath.Join(home, ".nodeedit")
}

// Load reads the config file and applies environment overrides.
func Load() Config {
	_ = godotenv.Load()
	cfg := LoadFile(Path())
	ApplyEnv(&cfg, os.Getenv)
	return cfg
}

// LoadFile reads settings from path on top of the defaults. A missing or
// unreadable file yields the defaults; unknown keys and invalid values are
// ignored.
func LoadFile(path string) Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		set(&cfg, strings.TrimSpace(key), strings.Trim(strings.TrimSpace(val), "\""))
	}
	return cfg
}

// envKeys maps environment variables to config keys.
var envKeys = []struct{ env, key string }{
	{"NODEEDIT_BACKEND", "backend"},
	{"NODEEDIT_LINK_MODIFIER", "link_modifier"},
	{"NODEEDIT_WIDTH", "width"},
	{"NODEEDIT_HEIGHT", "height"},
	{"NODEEDIT_ADDR", "addr"},
}

// ApplyEnv overrides cfg with the non-empty NODEEDIT_* variables getenv
// returns.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	for _, e := range envKeys {
		if v := getenv(e.env); v != "" {
			set(cfg, e.key, v)
		}
	}
}

func set(cfg *Config, key, val string) {
	switch key {
	case "backend":
		if val == "raster" || val == "vector" {
			cfg.Backend = val
		}
	case "link_modifier":
		val = strings.ToLower(val)
		if val == "ctrl" || val == "shift" || val == "alt" {
			cfg.LinkModifier = val
		}
	case "width":
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			cfg.Width = n
		}
	case "height":
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			cfg.Height = n
		}
	case "last_dir":
		if val != "" {
			cfg.LastDir = val
		}
	case "addr":
		if val != "" {
			cfg.Addr = val
		}
	}
}

// Save writes cfg to the config file
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes cfg to path
func SaveFile(path string, cfg Config) error {
	content := fmt.Sprintf("# nodeedit configuration\nbackend = %q\nlink_modifier = %q\nwidth = %d\nheight = %d\nlast_dir = %q\naddr = %q\n",
		cfg.Backend, cfg.LinkModifier, cfg.Width, cfg.Height, cfg.LastDir, cfg.Addr)
	return os.WriteFile(path, []byte(content), 0644)
}
