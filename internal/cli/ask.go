// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command handler for the lumen CLI.
//
// Handles "lumen ask" which sends a single question and prints the reply.
//
// Examples:
//   lumen ask "What is a goroutine?"       Ask and print the reply
//   lumen ask --template code              Start from a prompt template
//   lumen ask "Explain this" --json        Output reply as JSON
//   lumen ask --model gemini-1.5-pro "Hi"  Use a specific model
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/lumen-tui/internal/config"
	"github.com/jeranaias/lumen-tui/internal/gemini"
	"github.com/jeranaias/lumen-tui/internal/prompts"
	"github.com/jeranaias/lumen-tui/internal/session"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for markdown output.
// USABILITY: Renders markdown responses with syntax highlighting.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a reply with markdown rendering when appropriate.
// Only renders markdown when stdout is a TTY to avoid corrupting piped output.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// askResult is the JSON output shape for --json mode.
type askResult struct {
	Query    string `json:"query"`
	Reply    string `json:"reply"`
	Model    string `json:"model"`
	Duration string `json:"duration"`
}

// HandleAskCommand handles the "ask" command.
func HandleAskCommand(args Args) error {
	query := strings.TrimSpace(args.Query)

	// A template can stand in for, or prefix, the query
	if args.Template != "" {
		tmpl, ok := prompts.ByID(args.Template)
		if !ok {
			return &UsageError{
				Command: "ask",
				Reason:  fmt.Sprintf("unknown template %q (run 'lumen templates' to list)", args.Template),
			}
		}
		if query == "" {
			query = tmpl.Prompt
		} else {
			query = tmpl.Prompt + "\n\n" + query
		}
	}

	if query == "" {
		return &UsageError{Command: "ask", Reason: "no question provided"}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if args.Model != "" {
		cfg.Gemini.Model = args.Model
	}

	client := newGeminiClient(cfg)
	if !client.IsConfigured() {
		return fmt.Errorf("%w: set GEMINI_API_KEY or add it to %s",
			gemini.ErrNotConfigured, configPathOrDefault())
	}

	sess := session.New(client).WithTimeout(cfg.Gemini.Timeout())
	defer sess.Close()

	if !args.Quiet && !args.JSON {
		fmt.Fprintf(os.Stderr, "%s %s\n", InfoStyle.Render("[Model]"), cfg.Gemini.Model)
	}

	start := time.Now()
	result, err := sess.Send(context.Background(), query)
	if err != nil {
		return err
	}
	if result.Err != nil {
		return result.Err
	}

	if args.JSON {
		out := askResult{
			Query:    query,
			Reply:    result.Reply.Content,
			Model:    cfg.Gemini.Model,
			Duration: time.Since(start).Round(time.Millisecond).String(),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	displayResponse(result.Reply.Content)

	if !args.Quiet {
		fmt.Fprintf(os.Stderr, "\n%s %s\n",
			InfoStyle.Render("[Done]"),
			time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// newGeminiClient builds a client from configuration.
func newGeminiClient(cfg *config.Config) *gemini.Client {
	client := gemini.NewClient(cfg.Gemini.APIKey)
	client.SetModel(cfg.Gemini.Model)
	if cfg.Gemini.BaseURL != "" {
		client.WithBaseURL(cfg.Gemini.BaseURL)
	}
	client.WithTimeout(cfg.Gemini.Timeout())
	return client
}

func configPathOrDefault() string {
	path, err := config.Path()
	if err != nil {
		return "~/.lumen/config.toml"
	}
	return path
}
