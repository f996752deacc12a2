// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/prepplan/internal/plan"
)

func TestNewTheme_Modes(t *testing.T) {
	assert.True(t, NewTheme(ModeDark).IsDark)
	assert.True(t, lipgloss.HasDarkBackground())

	assert.False(t, NewTheme(ModeLight).IsDark)
	assert.False(t, lipgloss.HasDarkBackground())

	assert.False(t, NewTheme(" LIGHT ").IsDark)
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme(ModeDark)

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"Question", theme.Question},
		{"ChoiceSelected", theme.ChoiceSelected},
		{"ButtonActive", theme.ButtonActive},
		{"ErrorBox", theme.ErrorBox},
		{"Card", theme.Card},
	}
	for _, s := range styles {
		assert.NotEmpty(t, s.style.Render("test"), s.name)
	}
}

func TestGetLayoutMode(t *testing.T) {
	theme := NewTheme(ModeDark)
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestGlamourStyle(t *testing.T) {
	theme := NewTheme(ModeDark)
	theme.ColorProfile = termenv.TrueColor
	assert.Equal(t, "dark", theme.GlamourStyle())

	theme.IsDark = false
	assert.Equal(t, "light", theme.GlamourStyle())

	theme.ColorProfile = termenv.Ascii
	assert.Equal(t, "notty", theme.GlamourStyle())
}

func TestPriorityBadge_TextWithoutColor(t *testing.T) {
	theme := NewTheme(ModeDark)
	for _, p := range plan.Priorities {
		assert.Contains(t, theme.PriorityBadge(p), "[")
	}
	assert.Contains(t, theme.PriorityBadge(plan.PriorityHigh), "HIGH")
	assert.Contains(t, theme.PriorityBadge(plan.PriorityLow), "LOW")
}

func TestRenderHelpers_IncludeIndicators(t *testing.T) {
	assert.Contains(t, RenderSuccess("saved"), StatusIndicators.Success)
	assert.Contains(t, RenderError("failed"), StatusIndicators.Error)
	assert.Contains(t, RenderWarning("careful"), StatusIndicators.Warning)
	assert.Contains(t, RenderInfo("note"), StatusIndicators.Info)
}
