// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/lumen-tui/internal/config"
	"github.com/jeranaias/lumen-tui/internal/export"
	"github.com/jeranaias/lumen-tui/internal/gemini"
	"github.com/jeranaias/lumen-tui/internal/session"
	"github.com/jeranaias/lumen-tui/internal/ui/components"
	"github.com/jeranaias/lumen-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	// StateKeyEntry prompts for an API key before chat is possible.
	StateKeyEntry State = iota
	// StateReady accepts input.
	StateReady
	// StateWaiting has a completion in flight.
	StateWaiting
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Domain
	cfg     *config.Config
	client  *gemini.Client
	session *session.Session

	// UI components
	viewport viewport.Model
	input    textinput.Model
	keyInput textinput.Model
	spinner  spinner.Model
	header   *components.Header
	welcome  *components.Welcome
	toasts   *components.ToastManager

	// Markdown rendering for assistant turns
	renderer *glamour.TermRenderer

	// Key bindings
	keyMap KeyMap

	// Signed-in user email, empty in guest mode
	userEmail string

	ready bool
}

// New creates the chat model. The session owns conversation state; the
// model only renders it.
func New(cfg *config.Config, client *gemini.Client, sess *session.Session) *Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4000
	input.Focus()

	keyInput := textinput.New()
	keyInput.Placeholder = "Paste your Gemini API key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	state := StateReady
	if !client.IsConfigured() {
		state = StateKeyEntry
		keyInput.Focus()
		input.Blur()
	}

	var renderer *glamour.TermRenderer
	if cfg.UI.RenderMarkdown {
		// Width is reset on the first WindowSizeMsg
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(76),
		)
	}

	return &Model{
		state:    state,
		theme:    theme,
		cfg:      cfg,
		client:   client,
		session:  sess,
		input:    input,
		keyInput: keyInput,
		spinner:  sp,
		header:   components.NewHeader(theme),
		welcome:  components.NewWelcome(theme),
		toasts:   components.NewToastManager(),
		renderer: renderer,
		keyMap:   DefaultKeyMap(),
	}
}

// SetUserEmail records the signed-in user for header display.
func (m *Model) SetUserEmail(email string) {
	m.userEmail = email
}

// Init starts the spinner and toast tickers.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		components.ToastTickCmd(),
	)
}

// exportOptions builds export options from configuration.
func (m *Model) exportOptions() *export.Options {
	return &export.Options{
		OutputDir:       m.cfg.Export.OutputDir,
		OpenAfterExport: m.cfg.Export.OpenAfterExport,
	}
}
