// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wizard

// Phase is derived from the step cursor.
type Phase int

const (
	PhaseCollecting Phase = iota // cursor within [1, total]
	PhaseResult                  // cursor moved past the last step
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseResult {
		return "result"
	}
	return "collecting"
}

// Position is the step sequencer. The zero value is not usable; use
// NewPosition.
type Position struct {
	step  int
	total int
}

// NewPosition returns a cursor on step 1 of total steps.
func NewPosition(total int) *Position {
	if total < 1 {
		total = 1
	}
	return &Position{step: 1, total: total}
}

// Step returns the 1-based current step. In the result phase it is total+1.
func (p *Position) Step() int { return p.step }

// Total returns the number of question steps.
func (p *Position) Total() int { return p.total }

// Phase reports whether the cursor is still on a question.
func (p *Position) Phase() Phase {
	if p.step > p.total {
		return PhaseResult
	}
	return PhaseCollecting
}

// IsFirst reports whether the cursor is on step 1.
func (p *Position) IsFirst() bool { return p.step == 1 }

// IsLast reports whether the cursor is on the final question, the one that
// offers submit instead of next.
func (p *Position) IsLast() bool { return p.step == p.total }

// Advance moves forward one step; it is a no-op on the last step and in the
// result phase.
func (p *Position) Advance() {
	if p.step < p.total {
		p.step++
	}
}

// Retreat moves back one step; it is a no-op on step 1 and in the result
// phase.
func (p *Position) Retreat() {
	if p.step > 1 && p.step <= p.total {
		p.step--
	}
}

// EnterResultPhase moves the cursor past the last question.
func (p *Position) EnterResultPhase() {
	p.step = p.total + 1
}

// Reset moves the cursor back to step 1.
func (p *Position) Reset() {
	p.step = 1
}
