// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/prepplan/internal/export"
	"github.com/jeranaias/prepplan/internal/plan/plantest"
	"github.com/jeranaias/prepplan/internal/ui/styles"
	"github.com/jeranaias/prepplan/internal/wizard"
)

func plainTheme() *styles.Theme {
	theme := styles.NewTheme(styles.ModeDark)
	theme.ColorProfile = termenv.Ascii
	return theme
}

func TestPercent(t *testing.T) {
	tests := []struct {
		step, total int
		want        float64
	}{
		{1, 6, 1.0 / 6},
		{3, 6, 0.5},
		{6, 6, 1},
		{9, 6, 1},
		{-1, 6, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percent(tt.step, tt.total), 1e-9, "step %d of %d", tt.step, tt.total)
	}
}

func TestStepIndicator_Markers(t *testing.T) {
	s := NewStepIndicator(plainTheme())
	s.SetWidth(40)

	view := s.View(3, 6, "Syllabus Progress")
	assert.Contains(t, view, "Step 3 of 6")
	assert.Contains(t, view, "Syllabus Progress")
	assert.Contains(t, view, "[1]")
	assert.Contains(t, view, "[2]")
	assert.Contains(t, view, ">3<")
	assert.NotContains(t, view, "[3]")
	assert.NotContains(t, view, "[4]")
}

func TestStepIndicator_MinimumWidth(t *testing.T) {
	s := NewStepIndicator(nil)
	s.SetWidth(2)
	assert.Equal(t, 10, s.width)
	assert.Contains(t, s.View(1, 6, ""), "Step 1 of 6")
}

func TestGradientTitle(t *testing.T) {
	assert.Equal(t, "", GradientTitle("", "#000000", "#FFFFFF"))
	assert.Equal(t, "prepplan", GradientTitle("prepplan", "not-a-color", "#FFFFFF"))
	assert.Contains(t, GradientTitle("ab", "#22D3EE", "#A5B4FC"), "ab")
}

func TestHeader_CompactOnNarrowTerminals(t *testing.T) {
	h := NewHeader(plainTheme())
	h.SetModel("gemini-2.5-flash")

	h.SetWidth(40)
	compact := h.View()
	assert.Contains(t, compact, "<prepplan>")
	assert.Contains(t, compact, "gemini-2.5-flash")
	assert.Equal(t, 1, strings.Count(compact, "\n")+1)

	h.SetWidth(80)
	full := h.View()
	assert.Contains(t, full, "Exam Prep Planner")
	assert.Contains(t, full, "gemini-2.5-flash")
}

func TestErrorDisplay(t *testing.T) {
	e := NewErrorWithSuggestions("Generation Failed", "Something went wrong", []string{"Check your API key"})
	e.SetLogsPath("/tmp/prepplan.log")
	e.SetHints("[r] Try Again")
	e.SetWidth(70)

	assert.Equal(t, "Generation Failed", e.Title())
	assert.Equal(t, "Something went wrong", e.Message())

	view := e.View()
	for _, want := range []string{"Generation Failed", "Something went wrong", "Suggestions:", "Check your API key", "/tmp/prepplan.log", "[r] Try Again"} {
		assert.Contains(t, view, want)
	}
}

func TestInlineMessages(t *testing.T) {
	assert.Contains(t, InlineError("bad"), styles.StatusIndicators.Error)
	assert.Contains(t, InlineWarning("careful"), "careful")
	assert.Contains(t, InlineInfo("note"), styles.StatusIndicators.Info)
	assert.Contains(t, InlineSuccess("saved"), "saved")
}

func TestSpinner_Lifecycle(t *testing.T) {
	s := NewSpinner("")
	assert.Equal(t, "", s.View())
	assert.False(t, s.IsActive())
	assert.Zero(t, s.Elapsed())

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	current := base
	s.now = func() time.Time { return current }

	require.NotNil(t, s.Start())
	current = base.Add(75 * time.Second)
	s.SetDetail("Asking the model")

	view := s.View()
	assert.Contains(t, view, "Loading")
	assert.Contains(t, view, "1m 15s")
	assert.Contains(t, view, "Asking the model")

	s.Stop()
	assert.Equal(t, "", s.View())
	_, cmd := s.Update(nil)
	assert.Nil(t, cmd)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0s", formatElapsed(0))
	assert.Equal(t, "59s", formatElapsed(59*time.Second))
	assert.Equal(t, "2m 5s", formatElapsed(125*time.Second))
}

func TestPlanView_Render(t *testing.T) {
	answers := wizard.DefaultAnswers()
	answers.TargetScore = "650+"
	doc := &export.Document{Plan: plantest.Valid(), Answers: answers, Model: "gemini-2.5-flash"}

	pv := NewPlanView(plainTheme(), 100, 80)
	out := pv.Render(doc)

	for _, want := range []string{
		doc.Plan.Title,
		"Days Left",
		"30",
		"Daily Hours",
		doc.Plan.TotalHours,
		"Target Score",
		"650+",
		"[HIGH] 1",
		"Human Physiology",
		"Current Electricity",
	} {
		assert.Contains(t, out, want)
	}
}

func TestPlanView_CachesRendererPerWidth(t *testing.T) {
	pv := NewPlanView(plainTheme(), 100, 0)
	first := pv.glamourRenderer()
	require.NotNil(t, first)
	assert.Same(t, first, pv.glamourRenderer())

	pv.SetWidth(70)
	assert.NotSame(t, first, pv.glamourRenderer())
	assert.Equal(t, 70, pv.rendererWidth)
}

func TestPlanView_NoPlan(t *testing.T) {
	pv := NewPlanView(nil, 80, 0)
	assert.Equal(t, "No plan to display", pv.Render(nil))
	assert.Equal(t, "No plan to display", pv.Render(&export.Document{}))
}
