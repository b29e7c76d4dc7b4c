// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/lumen-tui/internal/prompts"
	"github.com/jeranaias/lumen-tui/internal/ui/styles"
)

// Welcome renders the empty-conversation screen: a short banner plus the
// prompt template picker. Selecting a template sends its prompt as the
// first user turn.
type Welcome struct {
	theme     *styles.Theme
	templates []prompts.Template
	cursor    int
	width     int
	height    int
}

// NewWelcome creates a welcome screen with the built-in templates.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{
		theme:     theme,
		templates: prompts.All(),
	}
}

// SetSize updates the layout dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// MoveUp moves the template cursor up.
func (w *Welcome) MoveUp() {
	if w.cursor > 0 {
		w.cursor--
	}
}

// MoveDown moves the template cursor down.
func (w *Welcome) MoveDown() {
	if w.cursor < len(w.templates)-1 {
		w.cursor++
	}
}

// Selected returns the template under the cursor.
func (w *Welcome) Selected() prompts.Template {
	return w.templates[w.cursor]
}

// Render returns the welcome screen content.
func (w *Welcome) Render(modelName string) string {
	var b strings.Builder

	b.WriteString(w.theme.WelcomeLogo.Render("✦ lumen"))
	b.WriteString("\n")
	b.WriteString(w.theme.WelcomeInfo.Render("Chat with " + modelName + ". Type a message, or pick a starter:"))
	b.WriteString("\n\n")

	category := ""
	for i, tmpl := range w.templates {
		if tmpl.Category != category {
			category = tmpl.Category
			b.WriteString(w.theme.TemplateTitle.Render(category))
			b.WriteString("\n")
		}

		line := fmt.Sprintf("  %-16s %s", tmpl.Title, w.theme.TemplateDesc.Render(tmpl.Description))
		if i == w.cursor {
			line = w.theme.TemplateFocused.Render("▸ " + strings.TrimLeft(line, " "))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(w.theme.ShortcutKey.Render("↑/↓") + w.theme.ShortcutDesc.Render(" select  "))
	b.WriteString(w.theme.ShortcutKey.Render("tab") + w.theme.ShortcutDesc.Render(" use template  "))
	b.WriteString(w.theme.ShortcutKey.Render("enter") + w.theme.ShortcutDesc.Render(" send message"))

	return w.theme.WelcomeBox.Render(b.String())
}
