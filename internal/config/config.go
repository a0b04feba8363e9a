// Package config loads the game's TOML configuration and turns it into
// an immutable Theme passed to the renderer at construction.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
)

// Config mirrors the on-disk TOML file.
type Config struct {
	ImageDir string      `toml:"image_dir"`
	FPS      int         `toml:"fps"`
	Theme    ThemeConfig `toml:"theme"`
}

// ThemeConfig holds colors as hex strings as written in the file.
type ThemeConfig struct {
	Background  string `toml:"background"`
	CardHidden  string `toml:"card_hidden"`
	CardMatched string `toml:"card_matched"`
	HUD         string `toml:"hud"`
	WinText     string `toml:"win_text"`
}

// Theme is the parsed, immutable palette handed to the renderer.
type Theme struct {
	Background  colorful.Color
	CardHidden  colorful.Color
	CardMatched colorful.Color
	HUD         colorful.Color
	WinText     colorful.Color
}

// DefaultConfig returns the built-in settings: the original palette and
// a 20 fps frame loop.
func DefaultConfig() *Config {
	return &Config{
		ImageDir: "images",
		FPS:      20,
		Theme: ThemeConfig{
			Background:  "#282828",
			CardHidden:  "#4682b4",
			CardMatched: "#3cb371",
			HUD:         "#ffffff",
			WinText:     "#ffd700",
		},
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the default path to the config file.
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "go-pairs", "config.toml")
}

// LoadConfig loads the config file at path, or the default location
// when path is empty. A missing file is created with defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefaultConfig(path)
	}

	config := DefaultConfig()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	return config, nil
}

func createDefaultConfig(path string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	config := DefaultConfig()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}

	return config, nil
}

// BuildTheme parses the configured hex colors. A color that fails to
// parse falls back to the default for that slot; the returned warnings
// name each bad value.
func (c *Config) BuildTheme() (Theme, []string) {
	defaults := DefaultConfig().Theme
	var warnings []string

	parse := func(slot, value, fallback string) colorful.Color {
		col, err := colorful.Hex(value)
		if err == nil {
			return col
		}
		warnings = append(warnings, fmt.Sprintf("invalid %s color %q, using default", slot, value))
		col, _ = colorful.Hex(fallback)
		return col
	}

	return Theme{
		Background:  parse("background", c.Theme.Background, defaults.Background),
		CardHidden:  parse("card_hidden", c.Theme.CardHidden, defaults.CardHidden),
		CardMatched: parse("card_matched", c.Theme.CardMatched, defaults.CardMatched),
		HUD:         parse("hud", c.Theme.HUD, defaults.HUD),
		WinText:     parse("win_text", c.Theme.WinText, defaults.WinText),
	}, warnings
}
