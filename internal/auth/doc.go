// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements a client for a hosted GoTrue-compatible
// authentication service (Supabase Auth).
//
// Supported flows:
//   - Email/password sign-up and sign-in
//   - OAuth sign-in URL construction (browser-based)
//   - Refresh-token session renewal
//   - Sign-out with server-side revocation
//
// Sessions and tokens are held in process memory only; nothing is persisted
// to disk. State transitions are published to registered callbacks so the UI
// can react to sign-in and sign-out.
package auth
