// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prepplan/internal/ui/styles"
)

// =============================================================================
// STEP INDICATOR
// =============================================================================

// StepIndicator shows where the user is in the questionnaire.
type StepIndicator struct {
	bar   progress.Model
	theme *styles.Theme
	width int
}

// NewStepIndicator creates an indicator with a gradient progress bar.
func NewStepIndicator(theme *styles.Theme) *StepIndicator {
	bar := progress.New(
		progress.WithGradient("#22D3EE", "#A5B4FC"),
		progress.WithoutPercentage(),
	)
	s := &StepIndicator{bar: bar, theme: theme}
	s.SetWidth(60)
	return s
}

// SetWidth sizes the bar to width columns.
func (s *StepIndicator) SetWidth(width int) {
	if width < 10 {
		width = 10
	}
	s.width = width
	s.bar.Width = width
}

// Percent is the fraction of steps reached, counting the current one.
func Percent(step, total int) float64 {
	if total <= 0 {
		return 0
	}
	if step < 0 {
		step = 0
	}
	if step > total {
		step = total
	}
	return float64(step) / float64(total)
}

// View renders "Step n of total" with the step label, the bar and a row of
// step markers.
func (s *StepIndicator) View(step, total int, label string) string {
	heading := fmt.Sprintf("Step %d of %d", step, total)
	if s.theme != nil {
		heading = s.theme.StepCounter.Render(heading)
		if label != "" {
			heading += "  " + s.theme.StepLabel.Render(label)
		}
	} else if label != "" {
		heading += "  " + label
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		heading,
		s.bar.ViewAs(Percent(step, total)),
		s.markers(step, total),
	)
}

// markers renders [1] for finished steps, >2< for the current one and a
// plain number for steps not reached yet.
func (s *StepIndicator) markers(step, total int) string {
	parts := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		n := strconv.Itoa(i)
		switch {
		case i < step:
			parts = append(parts, s.style(func(t *styles.Theme) lipgloss.Style { return t.StepDone }).Render("["+n+"]"))
		case i == step:
			parts = append(parts, s.style(func(t *styles.Theme) lipgloss.Style { return t.StepLabel }).Render(">"+n+"<"))
		default:
			parts = append(parts, s.style(func(t *styles.Theme) lipgloss.Style { return t.StepPending }).Render(" "+n+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (s *StepIndicator) style(pick func(*styles.Theme) lipgloss.Style) lipgloss.Style {
	if s.theme == nil {
		return lipgloss.NewStyle()
	}
	return pick(s.theme)
}
