// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go wraps session operations as Bubble Tea commands so blocking
// work never runs on the update loop.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lumen-tui/internal/export"
	"github.com/jeranaias/lumen-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// completionMsg delivers the outcome of a Send.
type completionMsg struct {
	result *session.Result
	err    error
}

// exportDoneMsg delivers the outcome of an export.
type exportDoneMsg struct {
	path string
	err  error
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd sends text through the session on a command goroutine.
// The session enforces single-flight itself; a Send while busy resolves to
// ErrBusy without touching state.
func sendCmd(sess *session.Session, text string) tea.Cmd {
	return func() tea.Msg {
		result, err := sess.Send(context.Background(), text)
		return completionMsg{result: result, err: err}
	}
}

// exportCmd writes the current conversation snapshot to a JSON file.
func exportCmd(sess *session.Session, opts *export.Options) tea.Cmd {
	snap := sess.Export()
	return func() tea.Msg {
		path, err := export.ExportJSON(snap, opts)
		return exportDoneMsg{path: path, err: err}
	}
}
