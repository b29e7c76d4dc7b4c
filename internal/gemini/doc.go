// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the client for Google's Generative Language API.
//
// # Key Types
//
//   - Client: completion API client (single call, no retries, no streaming)
//   - Content / Part: wire format for conversation history
//   - CompletionError: user-safe wrapper around any provider failure
//
// # Contract
//
// Complete takes the new user message and the prior history, oldest first.
// Assistant turns are serialized with wire role "model", user turns with
// "user". Without a configured API key, calls fail with ErrNotConfigured
// before any network activity.
//
// # Usage
//
//	client := gemini.NewClient(os.Getenv("GEMINI_API_KEY"))
//	text, err := client.Complete(ctx, "Hello!", history)
package gemini
