// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/lumen-tui/internal/gemini"
	"github.com/jeranaias/lumen-tui/internal/session"
	"github.com/jeranaias/lumen-tui/internal/ui/components"
)

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case completionMsg:
		return m.handleCompletion(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.toasts.AddError("Export failed: " + msg.err.Error())
		} else {
			m.toasts.AddSuccess("Exported to " + msg.path)
		}
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateChildren(msg)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.welcome.SetSize(msg.Width, msg.Height)

	viewportHeight := msg.Height - chromeHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}
	m.input.Width = msg.Width - 6
	m.keyInput.Width = msg.Width - 6

	// Re-wrap markdown for the new width
	if m.renderer != nil {
		wrap := msg.Width - 10
		if wrap < 20 {
			wrap = 20
		}
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		); err == nil {
			m.renderer = r
		}
	}

	m.refreshViewport(false)
	return m, nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works
	if key.Matches(msg, m.keyMap.Quit) {
		m.session.Close()
		return m, tea.Quit
	}

	if m.state == StateKeyEntry {
		return m.handleKeyEntryKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit(m.input.Value())

	case key.Matches(msg, m.keyMap.Template):
		// Template shortcut only applies on the welcome screen
		if m.session.MessageCount() == 0 {
			tmpl := m.welcome.Selected()
			return m.submit(tmpl.Prompt)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		// Allowed while waiting: the in-flight reply is discarded on arrival
		m.session.Clear()
		if m.state == StateWaiting {
			m.state = StateReady
		}
		m.toasts.AddStatus("Conversation cleared")
		m.refreshViewport(false)
		return m, nil

	case key.Matches(msg, m.keyMap.Export):
		if m.session.MessageCount() == 0 {
			m.toasts.AddStatus("Nothing to export yet")
			return m, nil
		}
		return m, exportCmd(m.session, m.exportOptions())

	case key.Matches(msg, m.keyMap.Up):
		if m.session.MessageCount() == 0 {
			m.welcome.MoveUp()
			return m, nil
		}

	case key.Matches(msg, m.keyMap.Down):
		if m.session.MessageCount() == 0 {
			m.welcome.MoveDown()
			return m, nil
		}
	}

	return m.updateChildren(msg)
}

// handleKeyEntryKey handles input while prompting for the API key.
func (m *Model) handleKeyEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		entered := strings.TrimSpace(m.keyInput.Value())
		if !gemini.ValidateAPIKey(entered) {
			m.toasts.AddError("That does not look like a valid API key")
			return m, nil
		}
		// The key lives in process memory only; nothing is written to disk
		m.client.SetAPIKey(entered)
		m.keyInput.SetValue("")
		m.keyInput.Blur()
		m.input.Focus()
		m.state = StateReady
		m.toasts.AddSuccess("API key set for this session")
		return m, nil
	}

	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

// submit sends text as a user turn.
func (m *Model) submit(text string) (tea.Model, tea.Cmd) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return m, nil
	}
	if m.state == StateWaiting {
		// Single-flight: the send is a no-op until the reply resolves
		m.toasts.AddStatus("Still waiting for the previous reply")
		return m, nil
	}

	m.input.SetValue("")
	m.state = StateWaiting
	m.refreshViewport(true)

	return m, tea.Batch(
		sendCmd(m.session, trimmed),
		m.spinner.Tick,
	)
}

// =============================================================================
// COMPLETION RESULTS
// =============================================================================

func (m *Model) handleCompletion(msg completionMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady

	if msg.err != nil {
		switch {
		case errors.Is(msg.err, session.ErrBusy), errors.Is(msg.err, session.ErrEmptyMessage):
			// No state change happened; nothing to show
		case errors.Is(msg.err, session.ErrClosed):
			return m, tea.Quit
		default:
			m.toasts.AddError(msg.err.Error())
		}
		m.refreshViewport(false)
		return m, nil
	}

	result := msg.result
	if result.Stale {
		// Cleared mid-flight; the result was discarded by the session
		m.refreshViewport(false)
		return m, nil
	}
	if result.Err != nil {
		// The user turn stays visible; the failure is shown as a toast
		m.toasts.AddError(result.Err.Error())
		m.refreshViewport(true)
		return m, nil
	}

	m.refreshViewport(true)
	return m, nil
}

// =============================================================================
// CHILD COMPONENT UPDATES
// =============================================================================

func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.state == StateKeyEntry {
		m.keyInput, cmd = m.keyInput.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
