// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// STEP SEQUENCER TESTS
// =============================================================================

func TestPosition_AdvanceBounded(t *testing.T) {
	total := TotalSteps
	for s := 1; s <= total; s++ {
		p := NewPosition(total)
		for p.Step() < s {
			p.Advance()
		}
		require.Equal(t, s, p.Step())

		p.Advance()
		assert.Equal(t, min(s+1, total), p.Step(), "advance from %d", s)
	}
}

func TestPosition_RetreatBounded(t *testing.T) {
	total := TotalSteps
	for s := 1; s <= total; s++ {
		p := NewPosition(total)
		for p.Step() < s {
			p.Advance()
		}

		p.Retreat()
		assert.Equal(t, max(s-1, 1), p.Step(), "retreat from %d", s)
	}
}

func TestPosition_Phases(t *testing.T) {
	p := NewPosition(6)
	assert.Equal(t, PhaseCollecting, p.Phase())
	assert.True(t, p.IsFirst())
	assert.False(t, p.IsLast())

	for i := 0; i < 10; i++ {
		p.Advance()
	}
	assert.True(t, p.IsLast())
	assert.Equal(t, PhaseCollecting, p.Phase())

	p.EnterResultPhase()
	assert.Equal(t, 7, p.Step())
	assert.Equal(t, PhaseResult, p.Phase())
	assert.Equal(t, "result", p.Phase().String())

	// navigation is inert once past the questions
	p.Advance()
	p.Retreat()
	assert.Equal(t, 7, p.Step())

	p.Reset()
	assert.Equal(t, 1, p.Step())
	assert.Equal(t, PhaseCollecting, p.Phase())
}

func TestNewPosition_ClampsTotal(t *testing.T) {
	p := NewPosition(0)
	assert.Equal(t, 1, p.Total())
	assert.True(t, p.IsFirst())
	assert.True(t, p.IsLast())
}

// =============================================================================
// FORM STATE STORE TESTS
// =============================================================================

func TestStore_SetFieldTouchesOnlyNamedField(t *testing.T) {
	for _, f := range Fields {
		t.Run(string(f), func(t *testing.T) {
			s := NewStore()
			for _, other := range Fields {
				s.SetField(other, "seed-"+string(other))
			}
			before := s.Answers()

			s.SetField(f, "first")
			s.SetField(f, "second")
			after := s.Answers()

			assert.Equal(t, "second", after.Get(f))
			for _, other := range Fields {
				if other == f {
					continue
				}
				assert.Equal(t, before.Get(other), after.Get(other), "field %s changed", other)
			}
		})
	}
}

func TestStore_SetFieldAcceptsInvalidValues(t *testing.T) {
	s := NewStore()
	s.SetField(FieldExamDate, "2001-01-01")
	s.SetField(FieldChaptersRemaining, "-4")
	s.SetField(FieldStudyStyle, "Cramming")

	a := s.Answers()
	assert.Equal(t, "2001-01-01", a.ExamDate)
	assert.Equal(t, "-4", a.ChaptersRemaining)
	assert.Equal(t, StudyStyle("Cramming"), a.StudyStyle)
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	for _, f := range Fields {
		s.SetField(f, "x")
	}
	s.SetField(FieldStudyStyle, string(StyleBalanced))

	s.Reset()
	a := s.Answers()
	assert.Equal(t, DefaultAnswers(), a)
	assert.Equal(t, StyleQuestionSolving, a.StudyStyle)
	assert.Empty(t, a.ExamName)
	assert.Empty(t, a.TargetScore)
}

func TestAnswers_Missing(t *testing.T) {
	a := DefaultAnswers()
	assert.Equal(t, []Field{FieldExamName, FieldChaptersRemaining, FieldExamDate, FieldTargetScore}, a.Missing())
	assert.False(t, a.Complete())

	a.ExamName = "NEET UG"
	a.ChaptersRemaining = "15"
	a.ExamDate = "2030-05-01"
	a.TargetScore = "650+"
	assert.Empty(t, a.Missing())
	assert.True(t, a.Complete(), "chapters completed is optional")

	a.StudyStyle = ""
	assert.Equal(t, []Field{FieldStudyStyle}, a.Missing())
}

// =============================================================================
// STEP TABLE TESTS
// =============================================================================

func TestSteps_MappingIsFixedAndTotal(t *testing.T) {
	require.Len(t, Steps, 6)
	require.Equal(t, len(Fields), TotalSteps)

	want := []Field{
		FieldExamName, FieldChaptersRemaining, FieldChaptersCompleted,
		FieldExamDate, FieldStudyStyle, FieldTargetScore,
	}
	for n := 1; n <= TotalSteps; n++ {
		st, ok := StepAt(n)
		require.True(t, ok)
		assert.Equal(t, want[n-1], st.Field, "step %d", n)
		assert.NotEmpty(t, st.Title)
		assert.NotEmpty(t, st.Label)
	}

	_, ok := StepAt(0)
	assert.False(t, ok)
	_, ok = StepAt(TotalSteps + 1)
	assert.False(t, ok)
}

func TestSteps_Kinds(t *testing.T) {
	kinds := []InputKind{InputText, InputNumber, InputMultiline, InputDate, InputChoice, InputText}
	for i, st := range Steps {
		assert.Equal(t, kinds[i], st.Kind, "step %d", i+1)
	}
	assert.True(t, Steps[2].Optional())
	assert.False(t, Steps[0].Optional())

	choice := Steps[4]
	require.Len(t, choice.Choices, 3)
	assert.Equal(t, "By solving questions", choice.Choices[0].Label)
	assert.Equal(t, 2, choice.ChoiceIndex(string(StyleBalanced)))
	assert.Equal(t, 0, choice.ChoiceIndex("nope"))
}

func TestStep_Advisory(t *testing.T) {
	now := time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC)
	chapters := Steps[1]
	date := Steps[3]

	tests := []struct {
		name    string
		step    Step
		value   string
		wantErr bool
	}{
		{"empty is not judged", chapters, "", false},
		{"positive", chapters, "15", false},
		{"zero", chapters, "0", true},
		{"words", chapters, "fifteen", true},
		{"today", date, "2026-10-16", false},
		{"future", date, "2027-01-01", false},
		{"past", date, "2026-10-15", true},
		{"bad format", date, "16/10/2026", true},
		{"free text has no check", Steps[0], "anything", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.step.Advisory(tc.value, now)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseStudyStyle(t *testing.T) {
	s, err := ParseStudyStyle("balanced")
	require.NoError(t, err)
	assert.Equal(t, StyleBalanced, s)

	s, err = ParseStudyStyle("2")
	require.NoError(t, err)
	assert.Equal(t, StyleRoteLearning, s)

	_, err = ParseStudyStyle("4")
	assert.Error(t, err)
	_, err = ParseStudyStyle("cramming")
	assert.Error(t, err)

	assert.True(t, StyleQuestionSolving.Valid())
	assert.False(t, StudyStyle("x").Valid())
}
