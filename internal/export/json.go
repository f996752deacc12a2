// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/prepplan/internal/plan"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports plans to JSON format. The plan object keeps the same
// field names the model was asked for, so it can be fed back to plan.Parse.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonDocument struct {
	GeneratedAt *time.Time      `json:"generatedAt,omitempty"`
	Model       string          `json:"model,omitempty"`
	Answers     *wizard.Answers `json:"answers,omitempty"`
	Plan        *plan.Plan      `json:"plan"`
}

// Export converts a plan to JSON format.
func (e *JSONExporter) Export(doc *Document) ([]byte, error) {
	if err := doc.check(); err != nil {
		return nil, err
	}

	out := jsonDocument{Plan: doc.Plan}
	if e.options.IncludeMetadata {
		if !doc.GeneratedAt.IsZero() {
			t := doc.GeneratedAt
			out.GeneratedAt = &t
		}
		out.Model = doc.Model
		if doc.Answers != (wizard.Answers{}) {
			a := doc.Answers
			out.Answers = &a
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
