// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lumen-tui/internal/config"
	"github.com/jeranaias/lumen-tui/internal/gemini"
	"github.com/jeranaias/lumen-tui/internal/session"
)

// fakeCompleter returns a canned reply or error.
type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, message string, history []gemini.Content) (string, error) {
	return f.reply, f.err
}

func newTestModel(t *testing.T, completer session.Completer) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UI.RenderMarkdown = false

	client := gemini.NewClient("AIzaTest-key-000000000000000000000000000")
	sess := session.New(completer)
	m := New(cfg, client, sess)

	// Simulate the first resize so the viewport exists
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(*Model)
}

func TestNewStartsReadyWhenConfigured(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{reply: "hi"})
	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
}

func TestNewPromptsForKeyWhenUnconfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	client := gemini.NewClient("")
	m := New(cfg, client, session.New(&fakeCompleter{}))

	if m.state != StateKeyEntry {
		t.Errorf("state = %v, want StateKeyEntry", m.state)
	}
}

func TestSubmitEntersWaiting(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{reply: "hello back"})

	updated, cmd := m.submit("hello")
	m = updated.(*Model)

	if m.state != StateWaiting {
		t.Errorf("state = %v, want StateWaiting", m.state)
	}
	if cmd == nil {
		t.Fatal("submit should return a command")
	}
}

func TestSubmitEmptyIsNoOp(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{reply: "unused"})

	updated, cmd := m.submit("   ")
	m = updated.(*Model)

	if m.state != StateReady {
		t.Error("empty submit should not change state")
	}
	if cmd != nil {
		t.Error("empty submit should not produce a command")
	}
	if m.session.MessageCount() != 0 {
		t.Error("empty submit should not append a turn")
	}
}

func TestSubmitWhileWaitingIsNoOp(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{reply: "reply"})
	m.state = StateWaiting

	updated, cmd := m.submit("second message")
	m = updated.(*Model)

	if cmd != nil {
		t.Error("submit while waiting should not start another send")
	}
	if m.session.MessageCount() != 0 {
		t.Error("submit while waiting should not append a turn")
	}
	if !m.toasts.HasToasts() {
		t.Error("a still-waiting notice should be shown")
	}
}

func TestCompletionSuccess(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{reply: "the reply"})

	result, err := m.session.Send(context.Background(), "question")
	if err != nil {
		t.Fatal(err)
	}
	m.state = StateWaiting

	updated, _ := m.Update(completionMsg{result: result})
	m = updated.(*Model)

	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady after completion", m.state)
	}
	if m.session.MessageCount() != 2 {
		t.Errorf("messages = %d, want 2", m.session.MessageCount())
	}
}

func TestCompletionFailureShowsToast(t *testing.T) {
	cause := errors.New("boom")
	m := newTestModel(t, &fakeCompleter{err: cause})

	result, err := m.session.Send(context.Background(), "question")
	if err != nil {
		t.Fatal(err)
	}
	m.state = StateWaiting

	updated, _ := m.Update(completionMsg{result: result})
	m = updated.(*Model)

	if m.state != StateReady {
		t.Error("failure should return to ready")
	}
	if !m.toasts.HasToasts() {
		t.Error("failure should surface a toast")
	}
	// The orphaned user turn stays visible
	if m.session.MessageCount() != 1 {
		t.Errorf("messages = %d, want the user turn preserved", m.session.MessageCount())
	}
}

func TestViewRendersTranscript(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{reply: "assistant says hi"})

	if _, err := m.session.Send(context.Background(), "user says hello"); err != nil {
		t.Fatal(err)
	}
	m.refreshViewport(true)

	view := m.View()
	if !strings.Contains(view, "user says hello") {
		t.Error("view should contain the user turn")
	}
	if !strings.Contains(view, "assistant says hi") {
		t.Error("view should contain the assistant turn")
	}
}

func TestViewShowsWelcomeWhenEmpty(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{reply: "unused"})

	view := m.View()
	if !strings.Contains(view, "Code Assistant") {
		t.Error("empty conversation should show the template picker")
	}
}
