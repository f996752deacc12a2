// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for prepplan.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GeminiConfig: API key, model, temperature and submission rate
//   - UIConfig / LogConfig / UsageConfig / ExportConfig: ambient settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PREPPLAN_*, GEMINI_API_KEY, API_KEY)
//   - ~/.prepplan/config.toml
//   - ~/.prepplan/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.RequireAPIKey(); err != nil {
//	    log.Fatal(err)
//	}
//
// Watch reloads a file on change so a running TUI picks up a new model or
// temperature for its next submission.
package config
