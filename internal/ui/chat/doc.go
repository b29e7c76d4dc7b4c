// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the lumen TUI.
//
// The view is a Bubble Tea model composed of a header, a scrollable message
// viewport, a single-line input, and a status bar. Completions run through
// the session store on a command goroutine; the view stays responsive and
// renders a spinner while a request is in flight.
//
// Layout of this package:
//   - model.go     Model struct, construction, Init
//   - update.go    Message handling and key dispatch
//   - view.go      Rendering
//   - commands.go  tea.Cmd wrappers around session operations
//   - keys.go      Key bindings
package chat
