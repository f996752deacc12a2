// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the prepplan command tree.
//
// The root command starts the full-screen planner. The other commands reuse
// the same session controller and Gemini client from a plain terminal or a
// script.
//
// # Usage
//
//	os.Exit(cli.Execute())
//
// # Commands Overview
//
//   - (none): full-screen six-step planner (needs a terminal)
//   - ask: the same questions as line prompts, plan printed as Markdown
//   - generate: one-shot plan from flags, --json for machine output
//   - config: show, path, init, get, set, reset
//   - usage: recent generations and token totals from the local ledger
//   - version: build information
//
// # Exit Codes
//
//   - 0: success
//   - 1: general failure
//   - 2: invalid or missing input
//   - 3: configuration problem, including a missing API key
//   - 4: plan generation failed
//   - 5: a terminal was required
package cli
