// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/prepplan/internal/config"
	"github.com/jeranaias/prepplan/internal/plan"
)

// =============================================================================
// GENERATION MESSAGES
// =============================================================================

// PlanResultMsg carries the outcome of one generation attempt.
type PlanResultMsg struct {
	Attempt int
	Model   string
	Plan    *plan.Plan
	Err     error
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// ExportDoneMsg reports where a plan was saved.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg is sent by the config watcher after the file changes.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
