// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements command-line parsing and command handlers for lumen.
//
// Commands:
//   - (default)  Launch the TUI chat interface
//   - ask        Ask a single question and print the reply
//   - chat       Interactive plain-terminal chat (no TUI)
//   - templates  List built-in prompt templates
//   - config     Show or edit configuration
//   - version    Print version information
//   - help       Print usage
//
// All commands share global flags (--quiet, --verbose, --json, --model) and
// a unified argument parser.
package cli
