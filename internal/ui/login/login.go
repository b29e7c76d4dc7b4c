// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the sign-in / sign-up view for the lumen TUI.
//
// The form is only shown when hosted auth is enabled in configuration.
// Esc skips sign-in and continues in guest mode.
package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lumen-tui/internal/auth"
	"github.com/jeranaias/lumen-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// mode selects between the sign-in and sign-up flows.
type mode int

const (
	modeSignIn mode = iota
	modeSignUp
)

// focusable form elements, in tab order.
const (
	focusEmail = iota
	focusPassword
	focusSubmit
	focusToggle
	focusCount
)

// authResultMsg delivers the outcome of a sign-in or sign-up attempt.
type authResultMsg struct {
	session *auth.Session
	err     error
}

// Model is the Bubble Tea model for the login form.
type Model struct {
	theme  *styles.Theme
	client *auth.Client

	mode  mode
	focus int

	email    textinput.Model
	password textinput.Model

	width   int
	height  int
	busy    bool
	errText string

	// Outcome, read by the caller after the program exits
	Session *auth.Session
	Skipped bool
}

// New creates the login form.
func New(client *auth.Client) *Model {
	theme := styles.NewTheme()

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	return &Model{
		theme:    theme,
		client:   client,
		email:    email,
		password: password,
	}
}

// Init starts the cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = userSafeAuthError(msg.err)
			return m, nil
		}
		m.Session = msg.session
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Skipped = true
		return m, tea.Quit

	case tea.KeyEsc:
		// Guest mode
		m.Skipped = true
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus - 1 + focusCount) % focusCount)
		return m, nil

	case tea.KeyEnter:
		switch m.focus {
		case focusToggle:
			m.toggleMode()
			return m, nil
		case focusSubmit, focusPassword:
			return m.submit()
		default:
			m.setFocus(m.focus + 1)
			return m, nil
		}
	}

	return m.updateInputs(msg)
}

func (m *Model) setFocus(focus int) {
	m.focus = focus
	m.email.Blur()
	m.password.Blur()
	switch focus {
	case focusEmail:
		m.email.Focus()
	case focusPassword:
		m.password.Focus()
	}
}

func (m *Model) toggleMode() {
	if m.mode == modeSignIn {
		m.mode = modeSignUp
	} else {
		m.mode = modeSignIn
	}
	m.errText = ""
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || !strings.Contains(email, "@") {
		m.errText = "enter a valid email address"
		return m, nil
	}
	if len(password) < 6 {
		m.errText = "password must be at least 6 characters"
		return m, nil
	}

	m.busy = true
	m.errText = ""
	signUp := m.mode == modeSignUp
	client := m.client

	return m, func() tea.Msg {
		var session *auth.Session
		var err error
		if signUp {
			session, err = client.SignUp(context.Background(), email, password)
		} else {
			session, err = client.SignInWithPassword(context.Background(), email, password)
		}
		return authResultMsg{session: session, err: err}
	}
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// userSafeAuthError maps auth failures to short display strings.
func userSafeAuthError(err error) string {
	switch {
	case err == nil:
		return ""
	case strings.Contains(err.Error(), "credentials"):
		return "invalid email or password"
	default:
		return "sign-in failed, please try again"
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the login form.
func (m *Model) View() string {
	var b strings.Builder

	title := "Sign in to lumen"
	action := "Sign in"
	toggle := "Need an account? Sign up"
	if m.mode == modeSignUp {
		title = "Create your lumen account"
		action = "Sign up"
		toggle = "Have an account? Sign in"
	}

	b.WriteString(m.theme.FormTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.theme.FormLabel.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	submitStyle := m.theme.FormButton
	if m.focus == focusSubmit {
		submitStyle = m.theme.FormFocused
	}
	toggleStyle := m.theme.FormButton
	if m.focus == focusToggle {
		toggleStyle = m.theme.FormFocused
	}

	if m.busy {
		b.WriteString(m.theme.FormLabel.Render("Signing in..."))
	} else {
		b.WriteString(submitStyle.Render(action))
		b.WriteString("  ")
		b.WriteString(toggleStyle.Render(toggle))
	}
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.FormError.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ShortcutDesc.Render("Tab to move · Enter to submit · Esc for guest mode"))

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
