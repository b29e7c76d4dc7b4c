// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for lumen.
//
// Supports TOML configuration with sensible defaults and environment variable
// overrides.
//
// Configuration file location (in order of precedence):
//   - ~/.lumen/config.toml
//   - Built-in defaults
//
// The Gemini API key is special-cased: it may be read from the config file
// or the GEMINI_API_KEY environment variable, but Save never writes it back
// to disk. The credential lives in process memory for the session.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/lumen-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lumen configuration.
type Config struct {
	// General settings
	Version string `toml:"version"`

	// Gemini (completion provider) configuration
	Gemini GeminiConfig `toml:"gemini"`

	// Auth (hosted auth provider) configuration
	Auth AuthConfig `toml:"auth"`

	// Export configuration
	Export ExportConfig `toml:"export"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// GeminiConfig contains completion provider configuration.
type GeminiConfig struct {
	// APIKey is the Gemini API key. Read from file or GEMINI_API_KEY; never
	// written back by Save.
	APIKey string `toml:"api_key"`
	// Model is the model name used for completions.
	Model string `toml:"model"`
	// BaseURL overrides the API endpoint (mainly for testing).
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds a single completion request.
	TimeoutSecs int `toml:"timeout_secs"`
}

// Timeout returns the completion timeout as a duration.
func (g GeminiConfig) Timeout() time.Duration {
	if g.TimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(g.TimeoutSecs) * time.Second
}

// AuthConfig contains hosted auth provider configuration.
type AuthConfig struct {
	// ProjectURL is the auth project base URL (e.g. https://xyz.supabase.co).
	ProjectURL string `toml:"project_url"`
	// AnonKey is the project's public anon key. Unlike the Gemini key this
	// is a publishable credential, so it may live in the config file.
	AnonKey string `toml:"anon_key"`
	// Enabled turns the sign-in flow on. When false, lumen starts in guest
	// mode without contacting the auth provider.
	Enabled bool `toml:"enabled"`
}

// ExportConfig contains export configuration.
type ExportConfig struct {
	// OutputDir is where chat-export files are written. Empty = current dir.
	OutputDir string `toml:"output_dir"`
	// OpenAfterExport opens the exported file in the default application.
	OpenAfterExport bool `toml:"open_after_export"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light".
	Theme string `toml:"theme"`
	// RenderMarkdown enables glamour markdown rendering of assistant turns.
	RenderMarkdown bool `toml:"render_markdown"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfig returns the built-in default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Gemini: GeminiConfig{
			Model:       "gemini-1.5-flash",
			TimeoutSecs: 60,
		},
		Auth: AuthConfig{
			Enabled: false,
		},
		Export: ExportConfig{
			OutputDir:       "",
			OpenAfterExport: false,
		},
		UI: UIConfig{
			Theme:          "dark",
			RenderMarkdown: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the lumen configuration directory (~/.lumen).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".lumen"), nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file, applies environment overrides, and validates.
// A missing file is not an error; defaults are used.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file yet; run on defaults plus env.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables on top of file values.
// Environment always wins so deployments can override a stale file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("LUMEN_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("LUMEN_GEMINI_BASE_URL"); v != "" {
		c.Gemini.BaseURL = v
	}
	if v := os.Getenv("LUMEN_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Gemini.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("LUMEN_AUTH_URL"); v != "" {
		c.Auth.ProjectURL = v
		c.Auth.Enabled = true
	}
	if v := os.Getenv("LUMEN_AUTH_ANON_KEY"); v != "" {
		c.Auth.AnonKey = v
	}
	if v := os.Getenv("LUMEN_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Gemini.TimeoutSecs < 0 {
		return fmt.Errorf("gemini.timeout_secs must be positive, got %d", c.Gemini.TimeoutSecs)
	}
	switch c.UI.Theme {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	if c.Auth.Enabled && c.Auth.ProjectURL == "" {
		return errors.New("auth.enabled requires auth.project_url")
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default path. The Gemini API key is
// redacted before writing: the credential is never persisted by lumen, even
// when it was loaded from the environment or entered interactively.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	// Copy so redaction does not mutate the live config.
	out := *c
	out.Gemini.APIKey = ""

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
