// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt turns a completed answer set into the instruction sent to
// the generative service, paired with the schema its reply must follow.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/prepplan/internal/plan"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// PhaseLengthDays is the nominal length of one study phase.
const PhaseLengthDays = 20

// NoneSpecified stands in for an empty chapters-completed answer.
const NoneSpecified = "None specified"

// Request is everything the generation client needs for one call.
type Request struct {
	Instruction   string
	Schema        *plan.Schema
	DaysRemaining int
}

// Build composes the instruction for answers as of now. It never fails: a
// missing or unparseable exam date yields one day remaining.
func Build(a wizard.Answers, now time.Time) Request {
	days := DaysRemaining(a.ExamDate, now)
	return Request{
		Instruction:   instruction(a, days),
		Schema:        plan.ResponseSchema,
		DaysRemaining: days,
	}
}

// DaysRemaining returns the whole days from now until the start of the exam
// date in now's location, rounded up and never less than 1. Days are
// counted on the calendar, so a DST shift in between does not move the
// result.
func DaysRemaining(examDate string, now time.Time) int {
	exam, err := time.Parse(wizard.DateLayout, strings.TrimSpace(examDate))
	if err != nil {
		return 1
	}
	// Any time already spent today rounds up to the whole day, so the
	// count is the calendar distance from today's date.
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := int(exam.Sub(today) / (24 * time.Hour))
	return max(days, 1)
}

// StyleClause describes the study style as the tail of a sentence starting
// "The student ...". Unknown styles fall back to the balanced clause.
func StyleClause(s wizard.StudyStyle) string {
	switch s {
	case wizard.StyleQuestionSolving:
		return "focuses heavily on solving a large number of practice questions and mock tests."
	case wizard.StyleRoteLearning:
		return "prioritizes memorizing concepts, formulas, and textbook material through repeated revision."
	default:
		return "uses a balanced approach, combining conceptual understanding with a moderate amount of practice problems."
	}
}

func instruction(a wizard.Answers, days int) string {
	completed := strings.TrimSpace(a.ChaptersCompleted)
	if completed == "" {
		completed = NoneSpecified
	}

	var b strings.Builder
	b.WriteString("You are an expert academic counselor for Indian students. ")
	b.WriteString("A student needs a hyper-personalized and highly detailed study plan.\n")
	b.WriteString("Generate a detailed, realistic, and motivating study plan based on the following information:\n\n")

	fmt.Fprintf(&b, "- Exam Name: %s (a major competitive exam in India; tailor your advice accordingly)\n", a.ExamName)
	fmt.Fprintf(&b, "- Chapters Remaining to Study: %s\n", a.ChaptersRemaining)
	fmt.Fprintf(&b, "- Chapters Already Completed: %s\n", completed)
	fmt.Fprintf(&b, "- Days Remaining Until Exam: %d\n", days)
	fmt.Fprintf(&b, "- Preferred Study Style: The student %s\n", StyleClause(a.StudyStyle))
	fmt.Fprintf(&b, "- Target Score/Rank: The student is aiming for %q. This is a crucial factor. ", a.TargetScore)
	b.WriteString("The plan's intensity, question counts, and revision frequency must be rigorous enough to reach this goal.\n\n")

	fmt.Fprintf(&b, "Break the plan into sequential phases of roughly %d days each. ", PhaseLengthDays)
	fmt.Fprintf(&b, "Distribute the entire remaining syllabus of %s chapters across these phases. ", a.ChaptersRemaining)
	fmt.Fprintf(&b, "Order chapters by their typical weightage and importance for the '%s' exam, highest first. ", a.ExamName)
	b.WriteString("Scale recommended question volumes and revision frequency to the target.\n\n")

	b.WriteString("Respond with a single JSON object that follows the response schema exactly. ")
	b.WriteString("Do not add any text or markdown before or after the JSON.\n")
	b.WriteString(describe(plan.ResponseSchema))
	return b.String()
}

// describe renders the schema's field descriptions as an indented outline so
// the instruction and the structured-output constraint say the same thing.
func describe(s *plan.Schema) string {
	var b strings.Builder
	var walk func(s *plan.Schema, depth int)
	walk = func(s *plan.Schema, depth int) {
		if s.Kind == plan.KindArray && s.Items != nil {
			s = s.Items
		}
		for _, p := range s.Properties {
			fmt.Fprintf(&b, "%s- %s", strings.Repeat("    ", depth), p.Name)
			if d := p.Schema.Description; d != "" {
				fmt.Fprintf(&b, ": %s", d)
			}
			if c := countHint(p.Schema); c != "" {
				fmt.Fprintf(&b, " (%s)", c)
			}
			if len(p.Schema.Enum) > 0 {
				fmt.Fprintf(&b, " One of: %s.", strings.Join(p.Schema.Enum, ", "))
			}
			b.WriteByte('\n')
			walk(p.Schema, depth+1)
		}
	}
	walk(s, 0)
	return b.String()
}

func countHint(s *plan.Schema) string {
	if s.Kind != plan.KindArray {
		return ""
	}
	switch {
	case s.MinItems > 0 && s.MinItems == s.MaxItems:
		return fmt.Sprintf("exactly %d items", s.MinItems)
	case s.MinItems > 0 && s.MaxItems > 0:
		return fmt.Sprintf("%d-%d items", s.MinItems, s.MaxItems)
	default:
		return "at least 1 item"
	}
}
