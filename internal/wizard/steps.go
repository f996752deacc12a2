// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InputKind selects how a step collects its value.
type InputKind int

const (
	InputText      InputKind = iota // single line of free text
	InputNumber                     // integer typed as text
	InputMultiline                  // free text over several lines
	InputDate                       // YYYY-MM-DD
	InputChoice                     // one of Step.Choices
)

// String returns the kind name.
func (k InputKind) String() string {
	switch k {
	case InputText:
		return "text"
	case InputNumber:
		return "number"
	case InputMultiline:
		return "multiline"
	case InputDate:
		return "date"
	case InputChoice:
		return "choice"
	}
	return "unknown"
}

// Choice is one option of an InputChoice step.
type Choice struct {
	Value string
	Label string
}

// Step describes one question of the wizard. Renderers work from this table
// only, so adding a question is a data change.
type Step struct {
	Field       Field
	Title       string
	Label       string
	Placeholder string
	Kind        InputKind
	Hint        string
	Choices     []Choice

	// Check reports an advisory problem with value, or nil. It never blocks
	// SetField; the UI shows the message next to the input.
	Check func(value string, now time.Time) error
}

// Optional reports whether the step may be left blank.
func (s Step) Optional() bool { return !s.Field.Required() }

// Steps is the fixed question table. Step n (1-based) is Steps[n-1].
var Steps = []Step{
	{
		Field:       FieldExamName,
		Title:       "Exam Details",
		Label:       "What exam are you preparing for? (e.g., JEE Mains, NEET, CBSE Class 12 Boards)",
		Placeholder: "e.g., NEET UG",
		Kind:        InputText,
	},
	{
		Field:       FieldChaptersRemaining,
		Title:       "Syllabus Status",
		Label:       "How many chapters are remaining to be studied?",
		Placeholder: "e.g., 15",
		Kind:        InputNumber,
		Hint:        "a whole number, at least 1",
		Check:       checkPositiveInt,
	},
	{
		Field:       FieldChaptersCompleted,
		Title:       "Syllabus Progress",
		Label:       "Which chapters have you already completed? (optional)",
		Placeholder: "e.g., Kinematics, Chemical Bonding, Cell Structure...",
		Kind:        InputMultiline,
	},
	{
		Field:       FieldExamDate,
		Title:       "Exam Timeline",
		Label:       "When is your exam?",
		Placeholder: "YYYY-MM-DD",
		Kind:        InputDate,
		Hint:        "YYYY-MM-DD, today or later",
		Check:       checkFutureDate,
	},
	{
		Field: FieldStudyStyle,
		Title: "Study Preference",
		Label: "How do you prefer to study?",
		Kind:  InputChoice,
		Choices: []Choice{
			{Value: string(StyleQuestionSolving), Label: StyleQuestionSolving.Label()},
			{Value: string(StyleRoteLearning), Label: StyleRoteLearning.Label()},
			{Value: string(StyleBalanced), Label: StyleBalanced.Label()},
		},
	},
	{
		Field:       FieldTargetScore,
		Title:       "Your Goal",
		Label:       "What is your target score or rank?",
		Placeholder: "e.g., 650+ in NEET, Under 1000 rank in JEE",
		Kind:        InputText,
	},
}

// TotalSteps is the number of questions.
var TotalSteps = len(Steps)

// StepAt returns the descriptor for 1-based step n.
func StepAt(n int) (Step, bool) {
	if n < 1 || n > len(Steps) {
		return Step{}, false
	}
	return Steps[n-1], true
}

// Advisory runs the step's check, if any, against value.
func (s Step) Advisory(value string, now time.Time) error {
	if s.Check == nil || strings.TrimSpace(value) == "" {
		return nil
	}
	return s.Check(value, now)
}

// ChoiceIndex returns the index of value among the step's choices, or 0.
func (s Step) ChoiceIndex(value string) int {
	for i, c := range s.Choices {
		if c.Value == value {
			return i
		}
	}
	return 0
}

func checkPositiveInt(value string, _ time.Time) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%q is not a whole number", value)
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func checkFutureDate(value string, now time.Time) error {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), now.Location())
	if err != nil {
		return fmt.Errorf("use the format YYYY-MM-DD")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return fmt.Errorf("date is in the past")
	}
	return nil
}
