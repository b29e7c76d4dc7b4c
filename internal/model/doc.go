// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing a chat conversation and its turns.
//
// # Key Types
//
//   - Conversation: ordered, append-only container for a chat history
//   - Message: single turn with role, content, and timestamp
//   - Role: turn role enumeration (user, assistant)
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("Hello!")
//
// Serialize the history for the completion API:
//
//	contents := conv.ToGeminiContents()
package model
