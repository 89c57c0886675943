// Package config handles udondis.toml settings and their environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up in the working directory.
const FileName = "udondis.toml"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents configuration for the udondis tool.
type Config struct {
	Debug         bool   `toml:"debug" json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	Color         string `toml:"color" json:"color" jsonschema:"title=Color,description=Listing colour mode,enum=auto,enum=always,enum=never,default=auto"`
	Theme         string `toml:"theme" json:"theme" jsonschema:"title=Theme,description=Chroma style used for the listing,default=disasm-dark"`
	Unknown       string `toml:"unknown" json:"unknown" jsonschema:"title=Unknown Placeholder,description=Text shown for addresses without a symbol,default=[Unknown]"`
	MarkdownWidth int    `toml:"markdown_width" json:"markdownWidth" jsonschema:"title=Markdown Width,description=Word wrap width for markdown output,minimum=20,default=100"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-" json:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Color:         ColorAuto,
		Theme:         "disasm-dark",
		Unknown:       "[Unknown]",
		MarkdownWidth: 100,
	}
}

// Load reads the config at path. An empty path falls back to $UDONDIS_CONFIG
// and then ./udondis.toml; a missing fallback file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("UDONDIS_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = FileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse error in %s: %w", path, err)
		}
		cfg.Path = path
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv applies UDONDIS_DEBUG, UDONDIS_NO_COLOR and UDONDIS_THEME.
func (c *Config) applyEnv() {
	if v := os.Getenv("UDONDIS_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if os.Getenv("UDONDIS_NO_COLOR") != "" {
		c.Color = ColorNever
	}
	if v := os.Getenv("UDONDIS_THEME"); v != "" {
		c.Theme = v
	}
}

// Validate checks enumerated and ranged fields.
func (c Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	if c.MarkdownWidth < 20 {
		return fmt.Errorf("markdown_width %d is below 20", c.MarkdownWidth)
	}
	return nil
}

// UseColor decides whether output to a terminal (or not) gets coloured.
func (c Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return terminal
}
