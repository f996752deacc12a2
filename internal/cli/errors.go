// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/prepplan/internal/config"
	"github.com/jeranaias/prepplan/internal/gemini"
	"github.com/jeranaias/prepplan/internal/session"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or credential error
	ExitConfigError = 3
	// ExitGenerationError indicates the plan could not be generated
	ExitGenerationError = 4
	// ExitTTYError indicates an interactive command without a terminal
	ExitTTYError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "config")
	Action  string // Action being performed (e.g., "set")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, Example: example}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err in a consistent format. Generation failures show
// the single user-facing message; the detail is in the log file.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		DisplayErrorJSON(w, err)
		return
	}

	msg := err.Error()
	if errors.Is(err, gemini.ErrGeneration) {
		msg = gemini.UserMessage
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), msg)
}

// DisplayErrorJSON writes err as a JSON object.
func DisplayErrorJSON(w io.Writer, err error) {
	output := map[string]interface{}{
		"error":   err.Error(),
		"success": false,
	}

	var (
		cmdErr  *CommandError
		valErr  *ValidationError
		genErr  *gemini.GenerationError
		missErr *session.IncompleteError
	)
	switch {
	case errors.As(err, &genErr):
		output["error_type"] = "generation_error"
		output["error"] = gemini.UserMessage
		output["stage"] = string(genErr.Stage)
	case errors.As(err, &missErr):
		output["error_type"] = "validation_error"
		fields := make([]string, len(missErr.Missing))
		for i, f := range missErr.Missing {
			fields[i] = string(f)
		}
		output["missing"] = fields
	case errors.As(err, &valErr):
		output["error_type"] = "validation_error"
		output["field"] = valErr.Field
		output["value"] = valErr.Value
		output["reason"] = valErr.Reason
		if valErr.Example != "" {
			output["example"] = valErr.Example
		}
	case errors.As(err, &cmdErr):
		output["error_type"] = "command_error"
		output["command"] = cmdErr.Command
		output["action"] = cmdErr.Action
		output["reason"] = cmdErr.Reason
	case errors.Is(err, config.ErrMissingAPIKey):
		output["error_type"] = "config_error"
	default:
		output["error_type"] = "generic_error"
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(output)
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		valErr  *ValidationError
		missErr *session.IncompleteError
		ttyErr  *TTYRequiredError
		cfgErrs config.ValidateErrors
		cfgErr  config.ValidationError
	)
	switch {
	case errors.As(err, &valErr), errors.As(err, &missErr):
		return ExitUsageError
	case errors.Is(err, config.ErrMissingAPIKey),
		errors.As(err, &cfgErrs),
		errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.Is(err, gemini.ErrGeneration):
		return ExitGenerationError
	case errors.As(err, &ttyErr):
		return ExitTTYError
	}
	return ExitGeneralError
}
