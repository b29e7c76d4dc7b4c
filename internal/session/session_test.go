// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/lumen-tui/internal/gemini"
	"github.com/jeranaias/lumen-tui/internal/model"
)

// =============================================================================
// FAKE COMPLETER
// =============================================================================

// fakeCompleter records what it was called with and returns a canned reply.
type fakeCompleter struct {
	mu      sync.Mutex
	calls   int
	message string
	history []gemini.Content

	reply string
	err   error

	// block, when non-nil, is closed by the test to release Complete.
	block chan struct{}
	// started, when non-nil, is closed when Complete begins.
	started chan struct{}
}

func (f *fakeCompleter) Complete(ctx context.Context, message string, history []gemini.Content) (string, error) {
	f.mu.Lock()
	f.calls++
	f.message = message
	f.history = history
	started := f.started
	block := f.block
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend_AppendsUserTurnBeforeCompletion(t *testing.T) {
	fake := &fakeCompleter{reply: "hi there"}
	sess := New(fake)

	res, err := sess.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if res.Err != nil {
		t.Fatalf("Result.Err = %v", res.Err)
	}

	msgs := sess.Messages()
	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "hello" {
		t.Errorf("first turn = %s %q, want user \"hello\"", msgs[0].Role, msgs[0].Content)
	}
	if msgs[1].Role != model.RoleAssistant || msgs[1].Content != "hi there" {
		t.Errorf("second turn = %s %q, want assistant \"hi there\"", msgs[1].Role, msgs[1].Content)
	}
	if sess.Busy() {
		t.Error("session still busy after completion")
	}
}

func TestSend_TrimsInput(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	sess := New(fake)

	if _, err := sess.Send(context.Background(), "  spaced out  "); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got := sess.Messages()[0].Content; got != "spaced out" {
		t.Errorf("user turn content = %q, want trimmed", got)
	}
	if fake.message != "spaced out" {
		t.Errorf("completer message = %q, want trimmed", fake.message)
	}
}

func TestSend_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"spaces only", "   "},
		{"whitespace mix", " \t\n "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeCompleter{reply: "unused"}
			sess := New(fake)

			_, err := sess.Send(context.Background(), tc.input)
			if !errors.Is(err, ErrEmptyMessage) {
				t.Fatalf("Send(%q) error = %v, want ErrEmptyMessage", tc.input, err)
			}
			if sess.MessageCount() != 0 {
				t.Error("empty send mutated the turn sequence")
			}
			if fake.callCount() != 0 {
				t.Error("empty send reached the completer")
			}
		})
	}
}

func TestSend_WhileBusyIsNoOp(t *testing.T) {
	fake := &fakeCompleter{
		reply:   "late reply",
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	sess := New(fake)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Send(context.Background(), "first")
	}()
	<-fake.started

	if !sess.Busy() {
		t.Fatal("session not busy while request in flight")
	}

	countBefore := sess.MessageCount()
	_, err := sess.Send(context.Background(), "second")
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("Send() while busy error = %v, want ErrBusy", err)
	}
	if sess.MessageCount() != countBefore {
		t.Error("busy send changed the turn sequence")
	}
	if !sess.Busy() {
		t.Error("busy flag changed by rejected send")
	}

	close(fake.block)
	<-done

	if fake.callCount() != 1 {
		t.Errorf("completer called %d times, want 1", fake.callCount())
	}
	if sess.Busy() {
		t.Error("session still busy after completion")
	}
}

func TestSend_FailurePreservesUserTurn(t *testing.T) {
	cause := errors.New("quota exceeded")
	fake := &fakeCompleter{err: &gemini.CompletionError{Cause: cause}}
	sess := New(fake)

	res, err := sess.Send(context.Background(), "doomed")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if res.Err == nil {
		t.Fatal("Result.Err = nil, want completion failure")
	}

	msgs := sess.Messages()
	if len(msgs) != 1 {
		t.Fatalf("message count = %d, want 1 (user turn only)", len(msgs))
	}
	if msgs[0].Role != model.RoleUser {
		t.Errorf("surviving turn role = %s, want user", msgs[0].Role)
	}
	if sess.Busy() {
		t.Error("busy not cleared after failure")
	}
	if sess.LastError() == nil {
		t.Error("lastError not set after failure")
	}
}

func TestSend_SuccessClearsLastError(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("boom")}
	sess := New(fake)

	sess.Send(context.Background(), "fails")
	if sess.LastError() == nil {
		t.Fatal("lastError not set")
	}

	fake.mu.Lock()
	fake.err = nil
	fake.reply = "recovered"
	fake.mu.Unlock()

	sess.Send(context.Background(), "works")
	if sess.LastError() != nil {
		t.Errorf("lastError = %v after success, want nil", sess.LastError())
	}
}

// =============================================================================
// HISTORY SERIALIZATION TESTS
// =============================================================================

func TestSend_HistoryExcludesNewTurnAndMapsRoles(t *testing.T) {
	fake := &fakeCompleter{reply: "b"}
	sess := New(fake)

	// Build history [user:"a", assistant:"b", user:"c"] through real sends.
	sess.Send(context.Background(), "a")
	fake.mu.Lock()
	fake.reply = "ignored"
	fake.mu.Unlock()
	sess.Send(context.Background(), "c")

	// The second send saw [user:"a", assistant:"b"].
	// Patch the fake and send "d" to check the full contract.
	fake.mu.Lock()
	fake.reply = "final"
	fake.mu.Unlock()
	sess.Send(context.Background(), "d")

	want := []gemini.Content{
		{Role: "user", Parts: []gemini.Part{{Text: "a"}}},
		{Role: "model", Parts: []gemini.Part{{Text: "b"}}},
		{Role: "user", Parts: []gemini.Part{{Text: "c"}}},
		{Role: "model", Parts: []gemini.Part{{Text: "ignored"}}},
	}

	if fake.message != "d" {
		t.Errorf("completer message = %q, want %q", fake.message, "d")
	}
	if len(fake.history) != len(want) {
		t.Fatalf("history length = %d, want %d", len(fake.history), len(want))
	}
	for i, content := range fake.history {
		if content.Role != want[i].Role {
			t.Errorf("history[%d].Role = %q, want %q", i, content.Role, want[i].Role)
		}
		if content.Parts[0].Text != want[i].Parts[0].Text {
			t.Errorf("history[%d] text = %q, want %q", i, content.Parts[0].Text, want[i].Parts[0].Text)
		}
	}
}

func TestSend_AssistantTurnFollowsUserTurn(t *testing.T) {
	fake := &fakeCompleter{reply: "reply"}
	sess := New(fake)

	sess.Send(context.Background(), "question")

	msgs := sess.Messages()
	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	if msgs[1].ID <= msgs[0].ID {
		t.Errorf("assistant ID %q not ordered after user ID %q", msgs[1].ID, msgs[0].ID)
	}
}

// =============================================================================
// CLEAR / EXPORT / CLOSE TESTS
// =============================================================================

func TestClear_ResetsSequence(t *testing.T) {
	fake := &fakeCompleter{reply: "hi"}
	sess := New(fake)

	sess.Send(context.Background(), "hello")
	sess.Clear()

	if sess.MessageCount() != 0 {
		t.Errorf("message count after Clear = %d, want 0", sess.MessageCount())
	}
	if snap := sess.Export(); len(snap.Messages) != 0 {
		t.Errorf("export after Clear has %d messages, want 0", len(snap.Messages))
	}
}

func TestClear_MidFlightDiscardsLateReply(t *testing.T) {
	fake := &fakeCompleter{
		reply:   "late",
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	sess := New(fake)

	results := make(chan *Result, 1)
	go func() {
		res, _ := sess.Send(context.Background(), "question")
		results <- res
	}()
	<-fake.started

	sess.Clear()
	close(fake.block)

	res := <-results
	if !res.Stale {
		t.Error("mid-flight result not marked stale after Clear")
	}
	if sess.MessageCount() != 0 {
		t.Errorf("orphaned turns after Clear: count = %d, want 0", sess.MessageCount())
	}
	if sess.Busy() {
		t.Error("busy not released after stale completion")
	}
}

func TestExport_SnapshotIsImmutable(t *testing.T) {
	fake := &fakeCompleter{reply: "answer"}
	sess := New(fake)

	sess.Send(context.Background(), "question")
	snap := sess.Export()

	if len(snap.Messages) != 2 {
		t.Fatalf("snapshot has %d messages, want 2", len(snap.Messages))
	}
	if snap.ExportedAt.IsZero() {
		t.Error("snapshot missing export timestamp")
	}

	// Mutate the live session; the snapshot must not change.
	sess.Send(context.Background(), "more")
	sess.Clear()

	if len(snap.Messages) != 2 {
		t.Errorf("snapshot changed after live mutation: %d messages", len(snap.Messages))
	}
	if snap.Messages[0].Content != "question" {
		t.Errorf("snapshot content changed: %q", snap.Messages[0].Content)
	}
}

func TestClose_LateResultIsDiscarded(t *testing.T) {
	fake := &fakeCompleter{
		reply:   "too late",
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	sess := New(fake)

	results := make(chan *Result, 1)
	go func() {
		res, _ := sess.Send(context.Background(), "question")
		results <- res
	}()
	<-fake.started

	sess.Close()
	close(fake.block)

	res := <-results
	if !res.Stale {
		t.Error("result after Close not marked stale")
	}

	if _, err := sess.Send(context.Background(), "again"); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after Close error = %v, want ErrClosed", err)
	}
}

func TestSend_TimeoutSurfacesAsFailure(t *testing.T) {
	fake := &fakeCompleter{
		reply: "never",
		block: make(chan struct{}), // never closed; rely on the timeout
	}
	sess := New(fake).WithTimeout(20 * time.Millisecond)

	res, err := sess.Send(context.Background(), "hang")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if res.Err == nil {
		t.Fatal("hung completion did not surface a failure")
	}
	if sess.Busy() {
		t.Error("busy not cleared after timeout")
	}
	if sess.MessageCount() != 1 {
		t.Errorf("message count = %d, want 1 (user turn preserved)", sess.MessageCount())
	}
}
