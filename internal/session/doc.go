// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns conversation state and completion dispatch.
//
// A Session is the single source of truth for one conversation: the ordered
// turn sequence, the busy flag, and the last completion error. It is the
// only component that talks to the completion provider.
//
// # Guarantees
//
//   - Single-flight: at most one completion request outstanding at a time;
//     Send while busy is rejected, never queued.
//   - Append-only: turns are never re-sorted or edited; Clear is the only
//     operation that removes them.
//   - History snapshot: the completer receives the history as it existed
//     before the new user turn was appended.
//   - Failure preserves history: a failed exchange leaves the user turn in
//     place with no reply and no automatic retry.
//   - Clear or Close during an in-flight request discards the late result
//     instead of appending an orphaned assistant turn.
//
// # Usage
//
//	sess := session.New(gemini.NewClient(key))
//	res, err := sess.Send(ctx, "Hello!")
package session
