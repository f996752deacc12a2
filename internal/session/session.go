// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/prepplan/internal/logging"
	"github.com/jeranaias/prepplan/internal/plan"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// State is the session-level phase.
type State int

const (
	StateCollecting State = iota
	StateLoading
	StateResult
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy rejects a submission while one is in flight.
	ErrBusy = errors.New("a plan is already being generated")

	// ErrNotFinalStep rejects a submission from any step but the last.
	ErrNotFinalStep = errors.New("submit is only available on the final step")

	// ErrEmptyResult replaces a generator that returned neither plan nor error.
	ErrEmptyResult = errors.New("generator returned no plan")
)

// IncompleteError rejects a submission with required answers left blank.
type IncompleteError struct {
	Missing []wizard.Field
}

func (e *IncompleteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("missing required answers: %s", strings.Join(names, ", "))
}

// Generator produces a plan from a completed answer set.
type Generator interface {
	Generate(ctx context.Context, answers wizard.Answers) (*plan.Plan, error)
}

// Submission is handed out by BeginSubmit and passed back to Complete.
type Submission struct {
	Attempt int
	Answers wizard.Answers
}

// Controller is the top-level session controller. It is not safe for
// concurrent use; the UI event loop or the line-mode driver owns it.
type Controller struct {
	id    string
	log   *logging.Logger
	store *wizard.Store
	pos   *wizard.Position

	state   State
	plan    *plan.Plan
	err     error
	attempt int
}

// New starts a session on step 1 with default answers.
func New(log *logging.Logger) *Controller {
	if log == nil {
		log = logging.NewNop()
	}
	id := uuid.NewString()
	return &Controller{
		id:    id,
		log:   log.With("session_id", id),
		store: wizard.NewStore(),
		pos:   wizard.NewPosition(wizard.TotalSteps),
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// State returns the current phase.
func (c *Controller) State() State { return c.state }

// Step returns the 1-based step cursor.
func (c *Controller) Step() int { return c.pos.Step() }

// Total returns the number of question steps.
func (c *Controller) Total() int { return c.pos.Total() }

// IsFirst reports whether the cursor is on step 1.
func (c *Controller) IsFirst() bool { return c.pos.IsFirst() }

// IsLast reports whether the cursor is on the final question.
func (c *Controller) IsLast() bool { return c.pos.IsLast() }

// CurrentStep returns the descriptor for the current question.
func (c *Controller) CurrentStep() (wizard.Step, bool) {
	if c.state != StateCollecting {
		return wizard.Step{}, false
	}
	return wizard.StepAt(c.pos.Step())
}

// Answers returns a snapshot of the answers.
func (c *Controller) Answers() wizard.Answers { return c.store.Answers() }

// Plan returns the generated plan; nil unless State is StateResult.
func (c *Controller) Plan() *plan.Plan {
	if c.state != StateResult {
		return nil
	}
	return c.plan
}

// Err returns the generation failure; nil unless State is StateError.
func (c *Controller) Err() error {
	if c.state != StateError {
		return nil
	}
	return c.err
}

// SetField records an answer. It is ignored outside the collecting state.
func (c *Controller) SetField(f wizard.Field, value string) {
	if c.state != StateCollecting {
		return
	}
	c.store.SetField(f, value)
}

// Next advances one step while collecting.
func (c *Controller) Next() {
	if c.state == StateCollecting {
		c.pos.Advance()
	}
}

// Back retreats one step while collecting.
func (c *Controller) Back() {
	if c.state == StateCollecting {
		c.pos.Retreat()
	}
}

// BeginSubmit moves the session into loading and returns the answers to
// generate from. Rejected submissions leave the session unchanged.
func (c *Controller) BeginSubmit() (Submission, error) {
	if c.state == StateLoading {
		return Submission{}, ErrBusy
	}
	if c.state != StateCollecting || !c.pos.IsLast() {
		return Submission{}, ErrNotFinalStep
	}
	answers := c.store.Answers()
	if missing := answers.Missing(); len(missing) > 0 {
		return Submission{}, &IncompleteError{Missing: missing}
	}

	c.attempt++
	c.state = StateLoading
	c.pos.EnterResultPhase()
	c.log.Info("plan submitted", "attempt", c.attempt, "study_style", answers.StudyStyle)
	return Submission{Attempt: c.attempt, Answers: answers}, nil
}

// Complete records the outcome of a submission. Outcomes for anything but
// the in-flight attempt are dropped and false is returned.
func (c *Controller) Complete(attempt int, p *plan.Plan, err error) bool {
	if c.state != StateLoading || attempt != c.attempt {
		c.log.Debug("stale generation outcome dropped", "attempt", attempt, "current", c.attempt)
		return false
	}
	if err == nil && p == nil {
		err = ErrEmptyResult
	}
	if err != nil {
		c.state = StateError
		c.plan = nil
		c.err = err
		c.log.Warn("plan generation failed", "attempt", attempt, "error", err)
		return true
	}
	c.state = StateResult
	c.plan = p
	c.err = nil
	c.log.Info("plan ready", "attempt", attempt, "title", p.Title)
	return true
}

// Submit runs BeginSubmit, the generator and Complete in sequence.
func (c *Controller) Submit(ctx context.Context, gen Generator) error {
	sub, err := c.BeginSubmit()
	if err != nil {
		return err
	}
	p, genErr := gen.Generate(ctx, sub.Answers)
	c.Complete(sub.Attempt, p, genErr)
	return c.Err()
}

// Restart clears the plan and error, resets every answer to its default and
// returns to step 1. It returns ErrBusy and changes nothing while a
// generation is in flight.
func (c *Controller) Restart() error {
	if c.state == StateLoading {
		return ErrBusy
	}
	c.store.Reset()
	c.pos.Reset()
	c.state = StateCollecting
	c.plan = nil
	c.err = nil
	c.log.Info("session restarted")
	return nil
}
