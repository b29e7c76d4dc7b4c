// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation snapshots to files.
//
// Exports operate on session.Snapshot values, which are deep point-in-time
// copies: exporting never mutates the live conversation, and mutating the
// live conversation never changes a produced export.
//
// # Supported Formats
//
//   - JSON: the canonical chat-export document
//     {"messages": [...], "exportedAt": "<ISO-8601>"}
//   - Markdown: human-readable transcript
//
// Filenames follow the pattern chat-export-<YYYY-MM-DD>.<ext>.
//
// # Usage
//
//	snap := sess.Export()
//	path, err := export.ExportJSON(snap, nil)
package export
