// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the lumen application.
//
// # Contents
//
//   - Rune- and width-aware string truncation for terminal rendering
//   - Atomic file writing for exports and config saves
package util
