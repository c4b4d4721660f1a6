// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates the application configuration.
//
// Configuration lives in ~/.fixo/config.toml (JSON accepted as a
// fallback). Missing file means defaults; FIXO_* environment variables
// override individual fields. Config holds no credentials; those live in
// the preference store.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/fixo-tui/internal/util"
)

// Modes and themes accepted by Validate.
const (
	ModeLite = "lite"
	ModeCore = "core"
	ModePro  = "pro"

	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// ErrInvalid wraps all validation failures.
var ErrInvalid = errors.New("invalid configuration")

// Typing controls the typewriter reveal animation.
type Typing struct {
	// BaseChunk is the number of runes revealed per tick before jitter.
	BaseChunk int `toml:"base_chunk" json:"base_chunk"`
	// TickMs is the interval between reveal ticks, in milliseconds.
	TickMs int `toml:"tick_ms" json:"tick_ms"`
	// Jitter is the width of the random chunk-size variation. Each tick
	// reveals BaseChunk + rand(Jitter) - Jitter/2 runes, floored at
	// MinChunk.
	Jitter int `toml:"jitter" json:"jitter"`
	// MinChunk floors the per-tick reveal size.
	MinChunk int `toml:"min_chunk" json:"min_chunk"`
}

// Catalogue configures the problem catalogue source.
type Catalogue struct {
	// Source is a file path or http(s) URL. Empty means no catalogue:
	// the Lite engine answers with fallbacks only.
	Source string `toml:"source" json:"source"`
	// Watch reloads a file-backed catalogue on change.
	Watch bool `toml:"watch" json:"watch"`
}

// Config is the complete application configuration.
type Config struct {
	// Mode is the assistance mode the session starts in.
	Mode string `toml:"mode" json:"mode"`
	// Theme selects the color scheme (light, dark, or auto).
	Theme string `toml:"theme" json:"theme"`
	// Provider is the completion backend for core mode.
	Provider string `toml:"provider" json:"provider"`

	Catalogue Catalogue `toml:"catalogue" json:"catalogue"`
	Typing    Typing    `toml:"typing" json:"typing"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Mode:     ModeLite,
		Theme:    ThemeDark,
		Provider: "groq",
		Catalogue: Catalogue{
			Source: "",
			Watch:  true,
		},
		Typing: Typing{
			BaseChunk: 20,
			TickMs:    25,
			Jitter:    10,
			MinChunk:  8,
		},
	}
}

// Dir returns the configuration directory, ~/.fixo.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".fixo"), nil
}

// PathTOML returns the primary config file path.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the fallback config file path.
func PathJSON() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration: TOML first, JSON fallback, defaults when
// neither exists. Environment overrides and validation apply in every
// case.
func Load() (*Config, error) {
	cfg := Default()

	if path, err := PathTOML(); err == nil {
		if data, err := os.ReadFile(path); err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			return finishLoad(cfg)
		}
	}

	if path, err := PathJSON(); err == nil {
		if data, err := os.ReadFile(path); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			return finishLoad(cfg)
		}
	}

	return finishLoad(cfg)
}

// LoadFile reads the configuration from an explicit path (TOML or JSON
// by extension), with overrides and validation applied.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return finishLoad(cfg)
}

func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides lets FIXO_* environment variables override file
// values, which keeps containers and CI configurable without a file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FIXO_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("FIXO_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("FIXO_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("FIXO_CATALOGUE"); v != "" {
		c.Catalogue.Source = v
	}
	if v := os.Getenv("FIXO_TYPING_TICK_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Typing.TickMs = n
		}
	}
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.Provider == "" {
		c.Provider = def.Provider
	}
	if c.Typing.BaseChunk <= 0 {
		c.Typing.BaseChunk = def.Typing.BaseChunk
	}
	if c.Typing.TickMs <= 0 {
		c.Typing.TickMs = def.Typing.TickMs
	}
	if c.Typing.Jitter < 0 {
		c.Typing.Jitter = def.Typing.Jitter
	}
	if c.Typing.MinChunk <= 0 {
		c.Typing.MinChunk = def.Typing.MinChunk
	}
}

// Validate rejects values the rest of the application cannot honor.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeLite, ModeCore, ModePro:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	switch c.Theme {
	case ThemeLight, ThemeDark, ThemeAuto:
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, c.Theme)
	}
	switch c.Provider {
	case "groq", "gemini", "huggingface":
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	}
	if c.Typing.MinChunk > c.Typing.BaseChunk {
		return fmt.Errorf("%w: typing min_chunk %d exceeds base_chunk %d",
			ErrInvalid, c.Typing.MinChunk, c.Typing.BaseChunk)
	}
	return nil
}

// Save writes the configuration to the primary TOML path.
// SECURITY: The config directory stays owner-only even though the file
// itself holds no secrets; the adjacent state file does.
func (c *Config) Save() error {
	path, err := PathTOML()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFilePrivate(path, data, 0600)
}
