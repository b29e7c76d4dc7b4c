// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
// A conversation has exactly two kinds of turns: the person typing and the
// model replying. There is no system or tool role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// WireRole returns the role token used by the Generative Language API.
// Assistant turns map to "model" on the wire; this mapping is part of the
// provider contract and must not change.
func (r Role) WireRole() string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content after trimming.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// FormatTime returns the timestamp formatted for display next to a bubble.
// Timestamps are display-only; ordering is always append order.
func (m *Message) FormatTime() string {
	return m.Timestamp.Format("15:04")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique, creation-ordered message ID.
// UUIDv7 is time-sortable, so IDs sort in creation order.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the random source is exhausted; fall back to v4
		// rather than panicking in the middle of a conversation.
		return "msg_" + uuid.NewString()
	}
	return "msg_" + id.String()
}
