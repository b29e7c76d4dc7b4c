// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handler for the lumen CLI.
//
// Examples:
//   lumen config show                      Show current configuration
//   lumen config set model gemini-1.5-pro  Set the default model
//   lumen config set theme light           Switch color theme
//   lumen config path                      Print config file location
package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/lumen-tui/internal/config"
)

// HandleConfigCommand handles the "config" command.
func HandleConfigCommand(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow()
	case "set":
		return configSet(args.ConfigKey, args.ConfigVal)
	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return &UsageError{
			Command: "config",
			Reason:  fmt.Sprintf("unknown subcommand %q (show, set, path)", args.Subcommand),
		}
	}
}

// configShow prints the current configuration. The API key is shown only
// as present/absent, never in full.
func configShow() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("lumen configuration"))

	keyStatus := ErrorStyle.Render("not set")
	if cfg.Gemini.APIKey != "" {
		keyStatus = SuccessStyle.Render("set (hidden)")
	}

	fmt.Printf("%s %s\n", LabelStyle.Render("API key:"), keyStatus)
	fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(cfg.Gemini.Model))
	fmt.Printf("%s %s\n", LabelStyle.Render("Timeout:"), ValueStyle.Render(cfg.Gemini.Timeout().String()))
	fmt.Printf("%s %s\n", LabelStyle.Render("Theme:"), ValueStyle.Render(cfg.UI.Theme))
	fmt.Printf("%s %s\n", LabelStyle.Render("Markdown:"), ValueStyle.Render(strconv.FormatBool(cfg.UI.RenderMarkdown)))

	authStatus := "disabled"
	if cfg.Auth.Enabled {
		authStatus = cfg.Auth.ProjectURL
	}
	fmt.Printf("%s %s\n", LabelStyle.Render("Auth:"), ValueStyle.Render(authStatus))

	exportDir := cfg.Export.OutputDir
	if exportDir == "" {
		exportDir = "(current directory)"
	}
	fmt.Printf("%s %s\n", LabelStyle.Render("Export dir:"), ValueStyle.Render(exportDir))
	return nil
}

// configSet updates a single configuration key and saves.
func configSet(key, value string) error {
	if key == "" {
		return &UsageError{Command: "config set", Reason: "key required (model, theme, timeout_secs, export_dir)"}
	}
	if value == "" {
		return &UsageError{Command: "config set", Reason: fmt.Sprintf("value required for %q", key)}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "model":
		cfg.Gemini.Model = value
	case "theme":
		cfg.UI.Theme = value
	case "timeout_secs", "timeout":
		secs, err := strconv.Atoi(value)
		if err != nil || secs <= 0 {
			return &UsageError{Command: "config set", Reason: "timeout_secs must be a positive integer"}
		}
		cfg.Gemini.TimeoutSecs = secs
	case "markdown", "render_markdown":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return &UsageError{Command: "config set", Reason: "markdown must be true or false"}
		}
		cfg.UI.RenderMarkdown = enabled
	case "export_dir":
		cfg.Export.OutputDir = value
	case "api_key", "apikey":
		// The key is read from GEMINI_API_KEY or entered in the TUI; it is
		// deliberately not persisted through config set.
		return &UsageError{
			Command: "config set",
			Reason:  "the API key is not stored in the config file; set GEMINI_API_KEY instead",
		}
	default:
		return &UsageError{
			Command: "config set",
			Reason:  fmt.Sprintf("unknown key %q (model, theme, timeout_secs, markdown, export_dir)", key),
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("Saved"), key, value)
	return nil
}
