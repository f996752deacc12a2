// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the prepplan TUI.
//
//   - Header: brand bar with the active model
//   - StepIndicator: "Step n of 6" with a progress bar and step markers
//   - Spinner: loading indicator with elapsed time
//   - ErrorDisplay: boxed error with suggestions and key hints
//   - PlanView: info cards plus the plan body rendered through glamour
//
// Components hold no session state; the app model passes in what to draw.
package components
