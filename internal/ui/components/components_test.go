// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/lumen-tui/internal/ui/styles"
)

func TestToastManagerAddAndRemove(t *testing.T) {
	m := NewToastManager()

	id1 := m.AddError("first")
	id2 := m.AddStatus("second")

	toasts := m.Toasts()
	if len(toasts) != 2 {
		t.Fatalf("toasts = %d, want 2", len(toasts))
	}
	// Newest first
	if toasts[0].ID != id2 || toasts[1].ID != id1 {
		t.Error("toasts should be ordered newest first")
	}

	m.Remove(id1)
	if len(m.Toasts()) != 1 {
		t.Error("Remove should drop the toast")
	}

	m.Clear()
	if m.HasToasts() {
		t.Error("Clear should drop all toasts")
	}
}

func TestToastManagerCapsStack(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < 10; i++ {
		m.AddStatus("toast")
	}
	if got := len(m.Toasts()); got != 5 {
		t.Errorf("toasts = %d, want capped at 5", got)
	}
}

func TestToastTickExpires(t *testing.T) {
	m := NewToastManager()
	expired := NewStatusToast("old")
	expired.CreatedAt = time.Now().Add(-time.Minute)
	m.Add(expired)
	m.AddError("fresh")

	remaining := m.Tick()
	if len(remaining) != 1 {
		t.Fatalf("remaining = %d, want 1", len(remaining))
	}
	if remaining[0].Message != "fresh" {
		t.Errorf("kept %q, want fresh", remaining[0].Message)
	}
}

func TestRenderToast(t *testing.T) {
	out := RenderToast(NewErrorToast("request failed"), 100)
	if !strings.Contains(out, "request failed") {
		t.Error("rendered toast should contain its message")
	}
	if out == "" {
		t.Error("rendered toast should not be empty")
	}
}

func TestRenderToastsEmpty(t *testing.T) {
	if RenderToasts(nil, 80) != "" {
		t.Error("empty stack should render to empty string")
	}
}

func TestHeaderRender(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(80)

	out := h.Render("Trip planning", "gemini-1.5-flash")
	if !strings.Contains(out, "Trip planning") {
		t.Error("header should contain the title")
	}

	out = h.Render("", "gemini-1.5-flash")
	if !strings.Contains(out, "lumen") {
		t.Error("empty title should fall back to app name")
	}
}

func TestWelcomeCursor(t *testing.T) {
	w := NewWelcome(styles.NewTheme())

	first := w.Selected()
	w.MoveUp() // clamped at top
	if w.Selected().ID != first.ID {
		t.Error("MoveUp at top should not change selection")
	}

	w.MoveDown()
	if w.Selected().ID == first.ID {
		t.Error("MoveDown should change selection")
	}

	// Clamp at bottom
	for i := 0; i < 100; i++ {
		w.MoveDown()
	}
	last := w.Selected()
	w.MoveDown()
	if w.Selected().ID != last.ID {
		t.Error("MoveDown at bottom should not change selection")
	}
}

func TestWelcomeRender(t *testing.T) {
	w := NewWelcome(styles.NewTheme())
	w.SetSize(100, 40)

	out := w.Render("gemini-1.5-flash")
	if !strings.Contains(out, "gemini-1.5-flash") {
		t.Error("welcome should mention the model")
	}
	if !strings.Contains(out, "Code Assistant") {
		t.Error("welcome should list templates")
	}
}
