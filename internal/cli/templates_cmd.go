// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// templates_cmd.go - Prompt template listing for the lumen CLI.
//
// Examples:
//   lumen templates            List all templates grouped by category
//   lumen templates code       Show the full prompt for one template
//   lumen templates --json     Output the registry as JSON
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jeranaias/lumen-tui/internal/prompts"
)

// HandleTemplatesCommand handles the "templates" command.
func HandleTemplatesCommand(args Args) error {
	if args.JSON {
		data, err := json.MarshalIndent(prompts.All(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode templates: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	// Show a single template's full prompt
	if args.Subcommand != "" {
		tmpl, ok := prompts.ByID(args.Subcommand)
		if !ok {
			return &UsageError{
				Command: "templates",
				Reason:  fmt.Sprintf("unknown template %q", args.Subcommand),
			}
		}
		fmt.Println(TitleStyle.Render(tmpl.Title))
		fmt.Printf("%s %s\n", LabelStyle.Render("Category:"), ValueStyle.Render(tmpl.Category))
		fmt.Printf("%s %s\n\n", LabelStyle.Render("Usage:"), ValueStyle.Render("lumen ask --template "+tmpl.ID))
		fmt.Println(tmpl.Prompt)
		return nil
	}

	fmt.Println(TitleStyle.Render("Prompt templates"))
	for _, category := range prompts.Categories() {
		fmt.Println(ValueStyle.Bold(true).Render(category))
		for _, tmpl := range prompts.ByCategory(category) {
			fmt.Printf("  %-12s %s\n", tmpl.ID, InfoStyle.Render(tmpl.Description))
		}
		fmt.Println()
	}
	fmt.Println(InfoStyle.Render("Use: lumen ask --template <id>  or  /help inside chat"))
	return nil
}
