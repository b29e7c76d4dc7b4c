// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the lumen CLI.
//
// USABILITY: Markdown rendering and history for better CLI experience
//
// Handles "lumen chat" which provides a plain-terminal REPL for conversing
// with the model, without the full TUI.
//
// Examples:
//   lumen chat                        Start interactive chat (default model)
//   lumen chat --model gemini-1.5-pro Use specific model
//   lumen chat --template code        Open with a prompt template
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Clear conversation history
//   /export [json|md]   Export the conversation to a file
//   /history            Show conversation history
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/lumen-tui/internal/config"
	"github.com/jeranaias/lumen-tui/internal/export"
	"github.com/jeranaias/lumen-tui/internal/gemini"
	"github.com/jeranaias/lumen-tui/internal/prompts"
	"github.com/jeranaias/lumen-tui/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatInput provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatInput struct {
	line        *liner.State
	historyFile string
}

// NewChatInput creates a ChatInput with input history support.
func NewChatInput() *ChatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	ci := &ChatInput{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	ci.loadHistory()
	return ci
}

func (c *ChatInput) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatInput) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists input history with owner-only permissions.
func (c *ChatInput) saveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatInput) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles the "chat" command.
func HandleChatCommand(args Args) error {
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

	input := NewChatInput()
	defer input.Close()

	if !args.Quiet {
		printChatWelcome(cfg)
	}

	// Seed the conversation from a template if requested
	if args.Template != "" {
		tmpl, ok := prompts.ByID(args.Template)
		if !ok {
			return &UsageError{
				Command: "chat",
				Reason:  fmt.Sprintf("unknown template %q (run 'lumen templates' to list)", args.Template),
			}
		}
		if err := processChatMessage(sess, cfg, tmpl.Prompt, args.Quiet); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		}
	}

	// Main REPL loop using liner for input history
	for {
		line, err := input.ReadInput(PromptStyle.Render("lumen> "))
		if err != nil {
			// Ctrl+C, Ctrl+D, or read failure: exit gracefully
			fmt.Println()
			printExitSummary(sess)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			cont, err := handleSlashCommand(line, sess, cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !cont {
				printExitSummary(sess)
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			printExitSummary(sess)
			return nil
		}

		if err := processChatMessage(sess, cfg, line, args.Quiet); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		}
	}
}

// processChatMessage sends one message and prints the reply.
func processChatMessage(sess *session.Session, cfg *config.Config, text string, quiet bool) error {
	start := time.Now()

	result, err := sess.Send(context.Background(), text)
	if err != nil {
		return err
	}
	if result.Err != nil {
		return result.Err
	}

	fmt.Println()
	displayResponse(result.Reply.Content)
	fmt.Println()

	if !quiet {
		fmt.Fprintf(os.Stderr, "%s %s | %s\n",
			InfoStyle.Render("[Stats]"),
			cfg.Gemini.Model,
			time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes an interactive command. Returns false when
// the REPL should exit.
func handleSlashCommand(line string, sess *session.Session, cfg *config.Config) (bool, error) {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "/help", "/h":
		printChatHelp()
		return true, nil

	case "/clear", "/c":
		sess.Clear()
		fmt.Println(SuccessStyle.Render("Conversation cleared."))
		return true, nil

	case "/export", "/e":
		format := "json"
		if len(parts) > 1 {
			format = strings.ToLower(parts[1])
		}
		path, err := exportConversation(sess, cfg, format)
		if err != nil {
			return true, err
		}
		fmt.Printf("%s %s\n", SuccessStyle.Render("Exported to"), path)
		return true, nil

	case "/history":
		printHistory(sess)
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

// exportConversation writes the current conversation to a file.
func exportConversation(sess *session.Session, cfg *config.Config, format string) (string, error) {
	snap := sess.Export()
	opts := &export.Options{
		OutputDir:       cfg.Export.OutputDir,
		OpenAfterExport: cfg.Export.OpenAfterExport,
	}

	switch format {
	case "json":
		return export.ExportJSON(snap, opts)
	case "md", "markdown":
		return export.ExportMarkdown(snap, opts)
	default:
		return "", fmt.Errorf("unsupported export format %q (json, md)", format)
	}
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printChatWelcome(cfg *config.Config) {
	fmt.Println(TitleStyle.Render("lumen chat"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(cfg.Gemini.Model))
	fmt.Println(InfoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()
}

func printChatHelp() {
	fmt.Println(TitleStyle.Render("Commands"))
	fmt.Println("  /help, /h           Show this help")
	fmt.Println("  /clear, /c          Clear conversation history")
	fmt.Println("  /export [json|md]   Export the conversation to a file")
	fmt.Println("  /history            Show conversation history")
	fmt.Println("  /quit, /q           Exit chat")
	fmt.Println()
}

func printHistory(sess *session.Session) {
	messages := sess.Messages()
	if len(messages) == 0 {
		fmt.Println(InfoStyle.Render("No messages yet."))
		return
	}
	for _, msg := range messages {
		label := msg.Role.DisplayName()
		fmt.Printf("%s %s\n", LabelStyle.Render(label+":"), msg.Preview(72))
	}
	fmt.Println()
}

func printExitSummary(sess *session.Session) {
	count := sess.MessageCount()
	if count == 0 {
		fmt.Println(InfoStyle.Render("Goodbye."))
		return
	}
	fmt.Printf("%s %d messages this session\n", InfoStyle.Render("[Session]"), count)
}
