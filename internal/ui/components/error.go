// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prepplan/internal/ui/styles"
)

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// ErrorDisplay is a boxed error message with optional suggestions.
type ErrorDisplay struct {
	title       string
	message     string
	suggestions []string
	logsPath    string
	hints       []string
	width       int
}

// NewError creates an error display with title and message.
func NewError(title, message string) ErrorDisplay {
	return ErrorDisplay{title: title, message: message}
}

// NewErrorWithSuggestions creates an error with helpful suggestions.
func NewErrorWithSuggestions(title, message string, suggestions []string) ErrorDisplay {
	e := NewError(title, message)
	e.suggestions = suggestions
	return e
}

// SetLogsPath names the log file to check for details.
func (e *ErrorDisplay) SetLogsPath(path string) {
	e.logsPath = path
}

// SetHints sets the key hints shown at the bottom of the box.
func (e *ErrorDisplay) SetHints(hints ...string) {
	e.hints = hints
}

// SetWidth sets the available width.
func (e *ErrorDisplay) SetWidth(width int) {
	e.width = width
}

// Title returns the error title.
func (e ErrorDisplay) Title() string { return e.title }

// Message returns the error message.
func (e ErrorDisplay) Message() string { return e.message }

// View renders the error box.
func (e ErrorDisplay) View() string {
	width := e.width
	if width == 0 {
		width = 60
	}
	maxWidth := width - 8
	if maxWidth < 30 {
		maxWidth = 30
	}
	if maxWidth > 80 {
		maxWidth = 80
	}

	var parts []string

	// ACCESSIBILITY: X mark keeps the title readable without color
	parts = append(parts, lipgloss.NewStyle().
		Foreground(styles.ErrorHighContrast).
		Bold(true).
		Render(styles.StatusIndicators.Error+" "+e.title))
	parts = append(parts, "")

	if e.message != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Width(maxWidth-4).
			Render(e.message))
		parts = append(parts, "")
	}

	if len(e.suggestions) > 0 {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.InfoHighContrast).
			Bold(true).
			Render("Suggestions:"))
		bullet := lipgloss.NewStyle().Foreground(styles.Cyan)
		text := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		for _, s := range e.suggestions {
			parts = append(parts, bullet.Render("  * ")+text.Render(s))
		}
		parts = append(parts, "")
	}

	if e.logsPath != "" {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(styles.WarningHighContrast).Render("[LOG] Logs: ")+
				lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(e.logsPath))
		parts = append(parts, "")
	}

	if len(e.hints) > 0 {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render(strings.Join(e.hints, "    ")))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.ErrorHighContrast).
		Padding(1, 2).
		Width(maxWidth).
		Render(content)
}

// =============================================================================
// INLINE MESSAGES
// =============================================================================

// InlineError renders a minimal inline error message.
func InlineError(message string) string {
	return inline(styles.StatusIndicators.Error, styles.ErrorHighContrast, styles.ErrorHighContrast, message)
}

// InlineWarning renders a minimal inline warning message.
func InlineWarning(message string) string {
	return inline(styles.StatusIndicators.Warning, styles.WarningHighContrast, styles.WarningHighContrast, message)
}

// InlineInfo renders a minimal inline info message.
func InlineInfo(message string) string {
	return inline(styles.StatusIndicators.Info, styles.InfoHighContrast, styles.TextSecondary, message)
}

// InlineSuccess renders a minimal inline success message.
func InlineSuccess(message string) string {
	return inline(styles.StatusIndicators.Success, styles.SuccessHighContrast, styles.SuccessHighContrast, message)
}

func inline(icon string, iconColor, textColor lipgloss.AdaptiveColor, message string) string {
	return lipgloss.NewStyle().Foreground(iconColor).Bold(true).Render(icon+" ") +
		lipgloss.NewStyle().Foreground(textColor).Render(message)
}
