// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lumen-tui/internal/auth"
)

func newTestLogin() *Model {
	return New(auth.NewClient("https://proj.supabase.co", "anon-key"))
}

func TestEscapeSkipsToGuestMode(t *testing.T) {
	m := newTestLogin()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(*Model)

	if !m.Skipped {
		t.Error("Esc should mark the login as skipped")
	}
	if cmd == nil {
		t.Error("Esc should quit the program")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestLogin()
	if m.focus != focusEmail {
		t.Fatalf("initial focus = %d, want email", m.focus)
	}

	for i := 0; i < focusCount; i++ {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = updated.(*Model)
	}
	if m.focus != focusEmail {
		t.Errorf("focus = %d, want wrapped back to email", m.focus)
	}
}

func TestSubmitValidatesInput(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{"empty email", "", "hunter22", "email"},
		{"malformed email", "nope", "hunter22", "email"},
		{"short password", "a@b.co", "abc", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestLogin()
			m.email.SetValue(tt.email)
			m.password.SetValue(tt.password)

			updated, cmd := m.submit()
			m = updated.(*Model)

			if cmd != nil {
				t.Error("invalid input should not start a request")
			}
			if !strings.Contains(m.errText, tt.wantErr) {
				t.Errorf("errText = %q, want mention of %s", m.errText, tt.wantErr)
			}
		})
	}
}

func TestSubmitValidInputStartsRequest(t *testing.T) {
	m := newTestLogin()
	m.email.SetValue("a@b.co")
	m.password.SetValue("hunter22")

	updated, cmd := m.submit()
	m = updated.(*Model)

	if cmd == nil {
		t.Fatal("valid input should produce an auth command")
	}
	if !m.busy {
		t.Error("model should be busy while the request runs")
	}

	// A second submit while busy is a no-op
	_, cmd = m.submit()
	if cmd != nil {
		t.Error("submit while busy should not start another request")
	}
}

func TestAuthFailureShowsSafeMessage(t *testing.T) {
	m := newTestLogin()
	m.busy = true

	updated, _ := m.Update(authResultMsg{err: auth.ErrInvalidCredentials})
	m = updated.(*Model)

	if m.busy {
		t.Error("failure should clear busy")
	}
	if m.errText == "" {
		t.Error("failure should show an error")
	}
	if strings.Contains(m.errText, "http") || strings.Contains(m.errText, "401") {
		t.Errorf("errText = %q leaks transport detail", m.errText)
	}
}

func TestAuthSuccessQuits(t *testing.T) {
	m := newTestLogin()
	session := &auth.Session{AccessToken: "tok", User: &auth.User{Email: "a@b.co"}}

	updated, cmd := m.Update(authResultMsg{session: session})
	m = updated.(*Model)

	if m.Session != session {
		t.Error("success should record the session")
	}
	if cmd == nil {
		t.Error("success should quit the program")
	}
}

func TestToggleMode(t *testing.T) {
	m := newTestLogin()
	m.setFocus(focusToggle)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if m.mode != modeSignUp {
		t.Error("toggle should switch to sign-up")
	}
	if !strings.Contains(m.View(), "Create your lumen account") {
		t.Error("view should reflect sign-up mode")
	}
}
