// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the lumen TUI:
// the header bar, non-blocking error toasts, and the welcome screen with
// its prompt template picker.
package components
