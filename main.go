// lumen - A terminal chat client for the Gemini API.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lumen-tui/internal/auth"
	"github.com/jeranaias/lumen-tui/internal/cli"
	"github.com/jeranaias/lumen-tui/internal/config"
	"github.com/jeranaias/lumen-tui/internal/gemini"
	"github.com/jeranaias/lumen-tui/internal/session"
	"github.com/jeranaias/lumen-tui/internal/ui/chat"
	"github.com/jeranaias/lumen-tui/internal/ui/login"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	closeLog := setupLogging()
	defer closeLog()

	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdTemplates:
		cli.HandleTemplates(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

// setupLogging redirects the standard logger to a file under the config
// directory. Log lines would corrupt the alternate screen buffer if they
// went to stderr while the TUI is running.
func setupLogging() func() {
	dir, err := config.Dir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "lumen.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }
}

// runTUI starts the full-screen chat interface.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}

	client := gemini.NewClient(cfg.Gemini.APIKey)
	client.SetModel(cfg.Gemini.Model)
	if cfg.Gemini.BaseURL != "" {
		client = client.WithBaseURL(cfg.Gemini.BaseURL)
	}
	client = client.WithTimeout(cfg.Gemini.Timeout())

	// CLI args override config
	if args.Model != "" {
		client.SetModel(args.Model)
	}

	sess := session.New(client).WithTimeout(cfg.Gemini.Timeout())
	defer sess.Close()

	// Run the sign-in form first when an auth provider is configured.
	// Esc skips it; the chat works the same either way.
	var userEmail string
	if cfg.Auth.Enabled {
		authClient := auth.NewClient(cfg.Auth.ProjectURL, cfg.Auth.AnonKey)
		if authClient.IsConfigured() {
			email, err := runLogin(authClient)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(cli.GetExitCode(err))
			}
			userEmail = email
		}
	}

	m := chat.New(cfg, client, sess)
	if userEmail != "" {
		m.SetUserEmail(userEmail)
	}

	// Reload config edits while the TUI runs. The entered API key lives
	// only in the client, so a reload never clears it.
	watcher := watchConfig(client)
	if watcher != nil {
		defer watcher.Close()
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running lumen: %v\n", err)
		os.Exit(1)
	}
}

// runLogin runs the sign-in form and returns the signed-in user's email,
// or "" when the user skipped it.
func runLogin(client *auth.Client) (string, error) {
	p := tea.NewProgram(login.New(client), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running sign-in: %w", err)
	}
	lm, ok := final.(*login.Model)
	if !ok || lm.Skipped || lm.Session == nil {
		return "", nil
	}
	return lm.Session.User.Email, nil
}

// watchConfig applies config file edits to the running client. A nil
// return means the watcher could not start; the TUI works without it.
func watchConfig(client *gemini.Client) *config.Watcher {
	path, err := config.Path()
	if err != nil {
		return nil
	}
	w, err := config.Watch(path, func(cfg *config.Config) {
		if cfg.Gemini.Model != "" {
			client.SetModel(cfg.Gemini.Model)
		}
		if cfg.Gemini.APIKey != "" {
			client.SetAPIKey(cfg.Gemini.APIKey)
		}
	})
	if err != nil {
		log.Printf("config watcher unavailable: %v", err)
		return nil
	}
	return w
}
