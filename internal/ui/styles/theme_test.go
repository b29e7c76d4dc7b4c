// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
	// Rendering must not panic even before a size is set
	_ = theme.UserBubble.Render("hello")
	_ = theme.AssistantBubble.Render("world")
	_ = theme.ErrorBox.Render("oops")
}

func TestSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", theme.Width, theme.Height)
	}
}

func TestBubbleWidth(t *testing.T) {
	theme := NewTheme()

	if got := theme.BubbleWidth(); got != 76 {
		t.Errorf("unsized BubbleWidth() = %d, want 76", got)
	}

	theme.SetSize(100, 40)
	if got := theme.BubbleWidth(); got != 75 {
		t.Errorf("BubbleWidth() = %d, want 75", got)
	}

	theme.SetSize(10, 40)
	if got := theme.BubbleWidth(); got != 20 {
		t.Errorf("narrow BubbleWidth() = %d, want clamped 20", got)
	}
}
