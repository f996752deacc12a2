// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jeranaias/prepplan/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar shown above every screen.
type Header struct {
	Title     string // Main title (default: "prepplan")
	Tagline   string // Line under the brand
	ModelName string // Gemini model used for the next submission
	Width     int    // Available width
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:   "prepplan",
		Tagline: "Exam Prep Planner",
		Width:   80,
		theme:   theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the current model name
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// View renders the header, falling back to a single line on narrow terminals.
func (h *Header) View() string {
	if h.Width < 50 {
		return h.ViewCompact()
	}
	innerWidth := h.Width - 6

	brand := lipgloss.NewStyle().Foreground(styles.Indigo).Render("< ") +
		GradientTitle(h.Title, "#22D3EE", "#A5B4FC") +
		lipgloss.NewStyle().Foreground(styles.Indigo).Render(" >")

	subtitle := h.Tagline
	if h.ModelName != "" {
		subtitle += " | " + h.ModelName
	}

	subStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	if h.theme != nil {
		subStyle = h.theme.HeaderSubtitle
	}

	center := lipgloss.NewStyle().Width(innerWidth).Align(lipgloss.Center)
	content := lipgloss.JoinVertical(lipgloss.Center,
		center.Render(brand),
		center.Render(subStyle.Render(subtitle)),
	)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Indigo).
		Padding(0, 2).
		Width(h.Width - 2).
		Render(content)
}

// ViewCompact renders a single-line header for narrow terminals
func (h *Header) ViewCompact() string {
	parts := []string{
		lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan).Render("<" + h.Title + ">"),
	}
	if h.ModelName != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.TextMuted).Render(h.ModelName))
	}
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")
	return strings.Join(parts, sep)
}

// =============================================================================
// GRADIENT TITLE (for terminals with true color support)
// =============================================================================

// GradientTitle colors text with a blend from startHex to endHex. Invalid
// colors leave the text unstyled.
func GradientTitle(text, startHex, endHex string) string {
	chars := []rune(text)
	n := len(chars)
	if n == 0 {
		return ""
	}

	start, err1 := colorful.Hex(startHex)
	end, err2 := colorful.Hex(endHex)
	if err1 != nil || err2 != nil {
		return text
	}
	if n < 3 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(start.Hex())).Render(text)
	}

	var result strings.Builder
	for i, char := range chars {
		t := float64(i) / float64(n-1)
		c := start.BlendLuv(end, t).Clamped()
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(char)))
	}
	return result.String()
}
