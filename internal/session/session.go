// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns conversation state and completion dispatch.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/lumen-tui/internal/gemini"
	"github.com/jeranaias/lumen-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage indicates a whitespace-only message was rejected
	// before any state mutation or network call.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy indicates a send was attempted while a completion request was
	// already outstanding. The send is a no-op; requests never queue.
	ErrBusy = errors.New("a request is already in flight")

	// ErrClosed indicates the session has been torn down.
	ErrClosed = errors.New("session is closed")
)

// =============================================================================
// COMPLETER INTERFACE
// =============================================================================

// Completer is the single-call boundary to the completion provider.
// *gemini.Client satisfies it; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, message string, history []gemini.Content) (string, error)
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the single source of truth for one conversation.
//
// It owns the turn sequence, a busy flag, and the last completion error, and
// it is the only component that calls the Completer. At most one completion
// request is outstanding at any time: Send while busy is a no-op. The
// sequence is append-only; Clear is the only operation that removes turns.
type Session struct {
	mu sync.Mutex

	conv      *model.Conversation
	completer Completer

	// busy is true from the moment a user turn is appended until the
	// completion resolves or fails.
	busy bool

	// lastError holds the most recent completion failure, cleared on the
	// next successful exchange.
	lastError error

	// generation increments on Clear and Close. A completion result carries
	// the generation it was started under; stale results are discarded
	// instead of appending onto a cleared conversation.
	generation uint64

	closed bool

	// timeout bounds each completion request.
	timeout time.Duration
}

// DefaultTimeout bounds a completion request when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// New creates a session around the given completer.
func New(completer Completer) *Session {
	return &Session{
		conv:      model.NewConversation(),
		completer: completer,
		timeout:   DefaultTimeout,
	}
}

// WithTimeout sets the per-request timeout.
func (s *Session) WithTimeout(d time.Duration) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.timeout = d
	}
	return s
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// Busy reports whether a completion request is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LastError returns the most recent completion failure, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Messages returns a snapshot copy of the turn sequence for rendering.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Message, len(s.conv.Messages))
	copy(out, s.conv.Messages)
	return out
}

// MessageCount returns the number of turns.
func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.MessageCount()
}

// Title returns the conversation title for display.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.GetTitle()
}

// =============================================================================
// SEND
// =============================================================================

// Result is the outcome of one completion exchange.
type Result struct {
	// Reply is the appended assistant turn on success, nil on failure.
	Reply *model.Message

	// Err is the completion failure, nil on success. The user turn that
	// triggered the exchange is preserved either way.
	Err error

	// Stale is true when the session was cleared or closed while the
	// request was in flight; the result was discarded.
	Stale bool
}

// Send appends a user turn for text and requests a completion.
//
// The call blocks until the completion resolves, fails, or times out; the
// TUI invokes it from a bubbletea command goroutine. Sequencing:
//
//  1. text is trimmed; empty input returns ErrEmptyMessage with no state
//     change and no network call.
//  2. If a request is already outstanding, returns ErrBusy with no state
//     change (single-flight; sends never queue).
//  3. The history snapshot is taken BEFORE the new user turn is appended:
//     the completer receives the new text as its message argument, excluded
//     from history.
//  4. On success the assistant turn is appended; on failure the orphaned
//     user turn stays visible, lastError is set, and nothing is retried.
func (s *Session) Send(ctx context.Context, text string) (*Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	history := s.conv.ToGeminiContents()
	s.conv.AddUserMessage(trimmed)
	s.busy = true
	gen := s.generation
	completer := s.completer
	timeout := s.timeout
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := completer.Complete(ctx, trimmed, history)

	return s.apply(gen, reply, err), nil
}

// apply records the outcome of a completion started under gen.
// Tolerates being called after Clear or Close by discarding the result.
func (s *Session) apply(gen uint64, reply string, err error) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A Clear or Close happened mid-flight. Dropping the result here is what
	// prevents an orphaned assistant turn from appearing on a fresh
	// conversation.
	if s.closed || gen != s.generation {
		if !s.closed {
			s.busy = false
		}
		return &Result{Stale: true, Err: err}
	}

	s.busy = false
	if err != nil {
		s.lastError = err
		return &Result{Err: err}
	}

	s.lastError = nil
	msg := s.conv.AddAssistantMessage(reply)
	return &Result{Reply: msg}
}

// =============================================================================
// CLEAR / EXPORT / CLOSE
// =============================================================================

// Clear resets the turn sequence to empty.
//
// Clearing is allowed while a request is in flight: the generation counter
// is bumped so the late-arriving result is discarded rather than appended
// onto the cleared conversation, and busy is released when it arrives.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.conv.ClearHistory()
	s.lastError = nil
	s.generation++
}

// Snapshot is a deep, point-in-time copy of the conversation for export.
// Later mutation of the live session does not change a snapshot.
type Snapshot struct {
	Messages   []*model.Message `json:"messages"`
	ExportedAt time.Time        `json:"exportedAt"`
}

// Export produces a snapshot of the full turn sequence plus an export
// timestamp. It does not mutate session state.
func (s *Session) Export() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := s.conv.Clone()
	return &Snapshot{
		Messages:   clone.Messages,
		ExportedAt: time.Now(),
	}
}

// Close tears the session down. Any in-flight completion result arriving
// afterwards is discarded; applying it is a no-op, never a panic.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
	s.busy = false
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
