// Package config provides configuration loading for cjkline using TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/hidetatz/cjkline/linebuf"
)

const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"

	PolicyRange     = "range"
	PolicyEastAsian = "eastasian"
)

// Width settings. Lo and Hi bound the wide range of the "range" policy;
// Ambiguous only affects "eastasian".
type Width struct {
	Policy    string `toml:"policy"`
	Lo        int32  `toml:"lo"`
	Hi        int32  `toml:"hi"`
	Ambiguous bool   `toml:"ambiguous"`
}

// Debug settings
type Debug struct {
	Log string `toml:"log"`
}

// Config is the main configuration struct
type Config struct {
	Prompt  string `toml:"prompt"`
	Backend string `toml:"backend"`
	Width   Width  `toml:"width"`
	Debug   Debug  `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Prompt:  "test>",
		Backend: BackendANSI,
		Width: Width{
			Policy: PolicyRange,
			Lo:     linebuf.DefaultWide.Lo,
			Hi:     linebuf.DefaultWide.Hi,
		},
	}
}

// Path returns the path to the user's config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cjkline", "config.toml"), nil
}

// Load layers the config file at path on top of defaults. An empty path means
// Path(), and a missing file there just yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}

	userCfg, md, err := loadFromTOML(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	cfg = merge(cfg, userCfg, md)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

func loadFromTOML(path string) (*Config, toml.MetaData, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, md, fmt.Errorf("parsing config TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, md, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return &cfg, md, nil
}

// merge layers user config on top of defaults. Only keys present in the file
// override defaults, so an explicit zero such as lo = 0 is kept.
func merge(defaults, user *Config, md toml.MetaData) *Config {
	result := *defaults

	if md.IsDefined("prompt") {
		result.Prompt = user.Prompt
	}
	if md.IsDefined("backend") {
		result.Backend = user.Backend
	}

	if md.IsDefined("width", "policy") {
		result.Width.Policy = user.Width.Policy
	}
	if md.IsDefined("width", "lo") {
		result.Width.Lo = user.Width.Lo
	}
	if md.IsDefined("width", "hi") {
		result.Width.Hi = user.Width.Hi
	}
	if md.IsDefined("width", "ambiguous") {
		result.Width.Ambiguous = user.Width.Ambiguous
	}

	if md.IsDefined("debug", "log") {
		result.Debug.Log = user.Debug.Log
	}

	return &result
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendANSI, BackendTcell, c.Backend)
	}

	switch c.Width.Policy {
	case PolicyRange:
		if c.Width.Lo < 0 || c.Width.Hi > utf8.MaxRune {
			return fmt.Errorf("width range %#x..%#x is outside Unicode", c.Width.Lo, c.Width.Hi)
		}
		if c.Width.Lo > c.Width.Hi {
			return fmt.Errorf("width range %#x..%#x is empty", c.Width.Lo, c.Width.Hi)
		}
	case PolicyEastAsian:
	default:
		return fmt.Errorf("width policy must be %q or %q, got %q", PolicyRange, PolicyEastAsian, c.Width.Policy)
	}
	return nil
}

// Classifier returns the width classifier the settings describe.
func (c *Config) Classifier() linebuf.Classifier {
	if c.Width.Policy == PolicyEastAsian {
		return linebuf.EastAsian{Ambiguous: c.Width.Ambiguous}
	}
	return linebuf.Range{Lo: c.Width.Lo, Hi: c.Width.Hi}
}
