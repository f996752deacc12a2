// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the plan generation client for Google's Gemini API.
//
// One call to Generate builds the prompt, sends a single structured-output
// request constrained by plan.ResponseSchema, and validates the reply against
// that same schema. There is no retry: any failure is returned as a
// *GenerationError and the caller decides what to show.
//
// # Key Types
//
//   - Client: genai-backed generator with a submission rate limit
//   - Config: API key, model, temperature, requests per minute
//   - GenerationError: the single failure kind, tagged with a Stage
//   - Attempt: per-call latency and token usage for observers
//
// # Usage
//
//	client, err := gemini.New(ctx, gemini.Config{APIKey: key}, log)
//	p, err := client.Generate(ctx, answers)
//	if errors.Is(err, gemini.ErrGeneration) {
//	    fmt.Println(gemini.UserMessage)
//	}
//
// # Security
//
// The API key is never logged; the logging package redacts it by key name
// and by shape.
package gemini
