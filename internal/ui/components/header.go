// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lumen-tui/internal/ui/styles"
)

// Header renders the top bar of the chat screen.
type Header struct {
	theme *styles.Theme
	width int
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// Render returns the header line. The title is the conversation title
// (or the app name when the conversation is empty); subtitle carries the
// model name and, when signed in, the user's email.
func (h *Header) Render(title, subtitle string) string {
	if title == "" {
		title = "lumen"
	}

	left := h.theme.HeaderTitle.Render(title)
	right := h.theme.HeaderSubtitle.Render(subtitle)

	gap := h.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	bar := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return lipgloss.NewStyle().
		Width(h.width).
		Background(styles.SurfaceDim).
		Padding(0, 1).
		Render(bar)
}
