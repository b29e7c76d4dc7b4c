// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lumen-tui/internal/model"
	"github.com/jeranaias/lumen-tui/internal/ui/components"
)

// chromeHeight is the vertical space taken by header, input, and status bar.
const chromeHeight = 6

// View renders the chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.state == StateKeyEntry {
		return m.viewKeyEntry()
	}

	var b strings.Builder

	subtitle := m.cfg.Gemini.Model
	if m.userEmail != "" {
		subtitle = m.userEmail + " · " + subtitle
	}
	b.WriteString(m.header.Render(m.session.Title(), subtitle))
	b.WriteString("\n")

	if m.session.MessageCount() == 0 && m.state != StateWaiting {
		b.WriteString(lipgloss.Place(
			m.width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center,
			m.welcome.Render(m.cfg.Gemini.Model),
		))
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	b.WriteString(m.viewInput())
	b.WriteString("\n")
	b.WriteString(m.viewStatusBar())

	view := b.String()

	if m.toasts.HasToasts() {
		toastView := components.RenderToasts(m.toasts.Toasts(), m.width)
		view += "\n" + toastView
	}
	return view
}

// viewKeyEntry renders the API key prompt shown before chat is available.
func (m *Model) viewKeyEntry() string {
	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render("Welcome to lumen"))
	b.WriteString("\n")
	b.WriteString(m.theme.WelcomeInfo.Render("A Gemini API key is required. It is kept in memory only."))
	b.WriteString("\n\n")
	b.WriteString(m.theme.FormLabel.Render("API key"))
	b.WriteString("\n")
	b.WriteString(m.keyInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.ShortcutDesc.Render("Enter to confirm · Ctrl+C to quit"))

	box := m.theme.FormBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) viewInput() string {
	prompt := m.theme.InputPrompt.Render("> ")
	return m.theme.InputContainer.Width(m.width - 2).Render(prompt + m.input.View())
}

func (m *Model) viewStatusBar() string {
	var status string
	if m.state == StateWaiting {
		status = m.theme.StatusBusy.Render(m.spinner.View() + " thinking...")
	} else {
		status = m.theme.StatusReady.Render("ready")
	}

	var hints []string
	for _, binding := range m.keyMap.ShortHelp() {
		h := binding.Help()
		hints = append(hints,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}

	return m.theme.StatusBar.Width(m.width).Render(status + "  " + strings.Join(hints, "  "))
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// refreshViewport re-renders the transcript. When follow is true the
// viewport scrolls to the newest message.
func (m *Model) refreshViewport(follow bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	if follow {
		m.viewport.GotoBottom()
	}
}

// renderMessages renders the full transcript.
func (m *Model) renderMessages() string {
	messages := m.session.Messages()
	if len(messages) == 0 {
		return ""
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.state == StateWaiting {
		b.WriteString("\n")
		b.WriteString(m.theme.ThinkingText.Render(m.spinner.View() + " thinking..."))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage renders one turn as a bubble: user turns on the right,
// assistant turns on the left with optional markdown rendering.
func (m *Model) renderMessage(msg *model.Message) string {
	meta := m.theme.MessageMeta.Render(msg.Role.DisplayName() + " · " + msg.FormatTime())
	width := m.theme.BubbleWidth()

	if msg.Role == model.RoleUser {
		bubble := m.theme.UserBubble.MaxWidth(width).Render(msg.Content)
		return lipgloss.JoinVertical(lipgloss.Right,
			lipgloss.PlaceHorizontal(m.width-2, lipgloss.Right, meta),
			lipgloss.PlaceHorizontal(m.width-2, lipgloss.Right, bubble),
		)
	}

	content := msg.Content
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}
	bubble := m.theme.AssistantBubble.MaxWidth(width).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, meta, bubble)
}
