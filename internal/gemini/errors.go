// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"errors"
	"fmt"
)

// UserMessage is the one message shown to the student for any failure.
const UserMessage = "Failed to generate study plan. Please check your inputs and try again."

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("gemini API key not configured")

	// ErrGeneration matches every error returned by Client.Generate.
	ErrGeneration = errors.New("failed to generate study plan")
)

// Stage names where a generation attempt failed.
type Stage string

const (
	StageRateLimit     Stage = "rate_limit"
	StageTransport     Stage = "transport"
	StageEmptyResponse Stage = "empty_response"
	StageDecode        Stage = "decode"
	StageSchema        Stage = "schema"
)

// GenerationError is the single failure kind of Generate. Stage is for logs;
// callers show UserMessage regardless of it.
type GenerationError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s [%s]", ErrGeneration, e.Stage)
	}
	return fmt.Sprintf("%s [%s]: %v", ErrGeneration, e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrGeneration) hold for every GenerationError.
func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

func fail(stage Stage, err error) error {
	return &GenerationError{Stage: stage, Err: err}
}
