// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package plan defines the study plan returned by the generative service.
//
// # Key Types
//
//   - Plan: title, daily hours, phases, sources, advice and closing words
//   - Phase / ChapterPlan: ~20 day blocks of prioritised chapters
//   - Schema: provider-neutral description of the expected JSON
//   - SchemaError: where a payload departs from ResponseSchema
//
// # Usage
//
// ResponseSchema is handed to the model as its output constraint, and the
// same tree checks what comes back:
//
//	p, err := plan.Parse(payload)
//	if err != nil {
//	    var se *plan.SchemaError
//	    if errors.As(err, &se) {
//	        log.Printf("bad field %s", se.Path)
//	    }
//	}
package plan
