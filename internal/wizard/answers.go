// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package wizard holds the questionnaire state for one planning session:
// the collected answers, the step cursor, and the fixed table of steps.
package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted for the exam date.
const DateLayout = "2006-01-02"

// =============================================================================
// STUDY STYLE
// =============================================================================

// StudyStyle is the student's preferred way of studying.
type StudyStyle string

const (
	StyleQuestionSolving StudyStyle = "QuestionSolving"
	StyleRoteLearning    StudyStyle = "RoteLearning"
	StyleBalanced        StudyStyle = "Balanced"
)

// StudyStyles lists the styles in display order.
var StudyStyles = []StudyStyle{StyleQuestionSolving, StyleRoteLearning, StyleBalanced}

// Label returns the human-readable choice text for the style.
func (s StudyStyle) Label() string {
	switch s {
	case StyleQuestionSolving:
		return "By solving questions"
	case StyleRoteLearning:
		return "By rote learning & revision"
	case StyleBalanced:
		return "A balanced mix of both"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known styles.
func (s StudyStyle) Valid() bool {
	for _, known := range StudyStyles {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStudyStyle accepts a style name (case-insensitive) or its 1-based
// position in StudyStyles.
func ParseStudyStyle(s string) (StudyStyle, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(StudyStyles) {
			return StudyStyles[n-1], nil
		}
		return "", fmt.Errorf("study style %d out of range 1-%d", n, len(StudyStyles))
	}
	for _, known := range StudyStyles {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown study style %q", s)
}

// =============================================================================
// FIELDS
// =============================================================================

// Field names one entry of the answer set.
type Field string

const (
	FieldExamName          Field = "examName"
	FieldChaptersRemaining Field = "chaptersRemaining"
	FieldChaptersCompleted Field = "chaptersCompleted"
	FieldExamDate          Field = "examDate"
	FieldStudyStyle        Field = "studyStyle"
	FieldTargetScore       Field = "targetScore"
)

// Fields lists every field in step order.
var Fields = []Field{
	FieldExamName,
	FieldChaptersRemaining,
	FieldChaptersCompleted,
	FieldExamDate,
	FieldStudyStyle,
	FieldTargetScore,
}

// Required reports whether the field must be filled before submission.
func (f Field) Required() bool {
	return f != FieldChaptersCompleted
}

// =============================================================================
// ANSWER SET
// =============================================================================

// Answers is the set of values collected from the student. It is a plain
// value: copying it takes a snapshot.
type Answers struct {
	ExamName          string     `json:"examName"`
	ChaptersRemaining string     `json:"chaptersRemaining"`
	ChaptersCompleted string     `json:"chaptersCompleted"`
	ExamDate          string     `json:"examDate"`
	StudyStyle        StudyStyle `json:"studyStyle"`
	TargetScore       string     `json:"targetScore"`
}

// DefaultAnswers returns the initial answer set.
func DefaultAnswers() Answers {
	return Answers{StudyStyle: StyleQuestionSolving}
}

// Get returns the current value of the named field. Unknown names yield "".
func (a Answers) Get(f Field) string {
	switch f {
	case FieldExamName:
		return a.ExamName
	case FieldChaptersRemaining:
		return a.ChaptersRemaining
	case FieldChaptersCompleted:
		return a.ChaptersCompleted
	case FieldExamDate:
		return a.ExamDate
	case FieldStudyStyle:
		return string(a.StudyStyle)
	case FieldTargetScore:
		return a.TargetScore
	}
	return ""
}

// Missing returns the required fields that are still blank, in step order.
func (a Answers) Missing() []Field {
	var missing []Field
	for _, f := range Fields {
		if f.Required() && strings.TrimSpace(a.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every required field has a value.
func (a Answers) Complete() bool {
	return len(a.Missing()) == 0
}

// ExamTime parses ExamDate in loc.
func (a Answers) ExamTime(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(a.ExamDate), loc)
}
