// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the Bubble Tea front end of the planner.
//
// The model renders one screen per session state: the six-step form, a
// spinner while the plan is generated, the plan itself in a scrollable
// viewport, or an error box. All state transitions go through
// session.Controller; the model only translates keys into controller calls
// and runs generation as a tea.Cmd.
//
// Key bindings:
//
//	Enter        next step, or generate on the last step
//	Tab          next step (also from the multi-line field)
//	Shift+Tab    previous step
//	up/down, 1-3 pick a study style
//	n / r        start a new plan from the result or error screen
//	s            save the plan (Markdown or JSON, per config)
//	q, Ctrl+C    quit
package app
