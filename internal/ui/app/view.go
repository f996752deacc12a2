// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prepplan/internal/gemini"
	"github.com/jeranaias/prepplan/internal/session"
	"github.com/jeranaias/prepplan/internal/ui/components"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the screen for the current session state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{m.header.View()}
	switch m.session.State() {
	case session.StateCollecting:
		parts = append(parts, m.viewForm())
	case session.StateLoading:
		parts = append(parts, m.viewLoading())
	case session.StateResult:
		parts = append(parts, m.viewport.View())
	case session.StateError:
		parts = append(parts, m.viewError())
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, m.viewHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// FORM
// =============================================================================

func (m Model) viewForm() string {
	step, ok := m.session.CurrentStep()
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.steps.View(m.session.Step(), m.session.Total(), step.Title))
	sb.WriteString("\n\n")

	label := step.Label
	if step.Optional() {
		label += " " + m.theme.Hint.Render("(optional)")
	}
	sb.WriteString(m.theme.Question.Render(label))
	sb.WriteString("\n")

	switch step.Kind {
	case wizard.InputChoice:
		sb.WriteString(m.viewChoices(step))
	case wizard.InputMultiline:
		sb.WriteString(m.theme.InputContainer.Render(m.area.View()))
	default:
		sb.WriteString(m.theme.InputContainer.Render(m.input.View()))
	}
	sb.WriteString("\n")

	if err := step.Advisory(m.currentValue(step), m.now()); err != nil {
		sb.WriteString(components.InlineWarning(err.Error()))
		sb.WriteString("\n")
	} else if step.Hint != "" {
		sb.WriteString(m.theme.Hint.Render(step.Hint))
		sb.WriteString("\n")
	}

	if m.gate != "" {
		sb.WriteString(components.InlineError(m.gate))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.viewButtons())
	return m.theme.Container.Render(sb.String())
}

func (m Model) viewChoices(step wizard.Step) string {
	lines := make([]string, len(step.Choices))
	for i, c := range step.Choices {
		if i == m.choice {
			lines[i] = m.theme.ChoiceSelected.Render("(*) " + c.Label)
		} else {
			lines[i] = m.theme.Choice.Render("( ) " + c.Label)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewButtons() string {
	back := m.theme.Button.Render("Back")
	if m.session.IsFirst() {
		back = m.theme.ButtonDisabled.Render("Back")
	}
	next := "Next"
	if m.session.IsLast() {
		next = "Generate Plan"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, back, "  ", m.theme.ButtonActive.Render(next))
}

// =============================================================================
// LOADING AND ERROR
// =============================================================================

func (m Model) viewLoading() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.spinner.View(),
		"",
		m.theme.ThinkingDetail.Render("This usually takes under a minute."),
	)
	return m.theme.Container.Render(body)
}

func (m Model) viewError() string {
	e := components.NewErrorWithSuggestions("Generation Failed", gemini.UserMessage, []string{
		"Check that the exam date is in YYYY-MM-DD format",
		"Make sure GEMINI_API_KEY is set and valid",
		"Wait a moment and start over; there is no automatic retry",
	})
	e.SetLogsPath(m.logsPath)
	e.SetHints("[r] Start Over", "[q] Quit")
	e.SetWidth(m.width)
	return m.theme.Container.Render(e.View())
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) viewHelp() string {
	kind := wizard.InputText
	if step, ok := m.session.CurrentStep(); ok {
		kind = step.Kind
	}
	bindings := m.keys.HelpFor(m.session.State(), kind, m.session.IsFirst(), m.session.IsLast())
	return m.help.ShortHelpView(bindings)
}
