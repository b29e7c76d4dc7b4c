// lumen - A terminal chat client for the Gemini API.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists lumen's TOML configuration.
//
// The file lives at ~/.lumen/config.toml. Environment variables override
// file values, and GEMINI_API_KEY is the only way a credential enters the
// process: Save always writes the file with the key blanked, so the
// credential never reaches disk.
package config
