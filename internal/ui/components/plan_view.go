// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prepplan/internal/export"
	"github.com/jeranaias/prepplan/internal/plan"
	"github.com/jeranaias/prepplan/internal/ui/styles"
	"github.com/jeranaias/prepplan/internal/util"
)

// cardValueWidth caps a card value; longer targets are truncated.
const cardValueWidth = 24

// =============================================================================
// PLAN VIEW COMPONENT
// =============================================================================

// PlanView renders a generated study plan: a title block with info cards,
// then the phases, advice and sources as Markdown through glamour.
type PlanView struct {
	theme    *styles.Theme
	width    int
	wordWrap int

	renderer      *glamour.TermRenderer
	rendererWidth int
	rendererStyle string
}

// NewPlanView creates a new plan view component. wordWrap caps the body
// width; zero means the full width.
func NewPlanView(theme *styles.Theme, width, wordWrap int) *PlanView {
	return &PlanView{theme: theme, width: width, wordWrap: wordWrap}
}

// SetWidth updates the available width.
func (pv *PlanView) SetWidth(width int) {
	pv.width = width
}

// SetWordWrap updates the body wrap column.
func (pv *PlanView) SetWordWrap(wrap int) {
	pv.wordWrap = wrap
}

// Render renders doc. It falls back to raw Markdown for the body when the
// terminal renderer cannot be built.
func (pv *PlanView) Render(doc *export.Document) string {
	if doc == nil || doc.Plan == nil {
		return "No plan to display"
	}
	p := doc.Plan

	var sb strings.Builder
	sb.WriteString(pv.renderHeader(p))
	sb.WriteString("\n\n")
	sb.WriteString(pv.renderCards(p, doc.Answers.TargetScore))
	sb.WriteString("\n")
	sb.WriteString(pv.renderPriorities(p))
	sb.WriteString("\n")
	sb.WriteString(pv.renderBody(doc))
	return sb.String()
}

func (pv *PlanView) renderHeader(p *plan.Plan) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.Indigo).Render(p.Title)
	if pv.theme != nil {
		title = pv.theme.HeaderTitle.Render(p.Title)
	}
	summary := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(pv.contentWidth()).
		Render(p.Summary)
	return title + "\n" + summary
}

func (pv *PlanView) renderCards(p *plan.Plan, target string) string {
	if target == "" {
		target = "-"
	}
	cards := []struct{ label, value string }{
		{"Days Left", fmt.Sprintf("%d", p.TotalDays)},
		{"Daily Hours", p.TotalHours},
		{"Target Score", target},
	}

	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2).
		MarginRight(1).
		Align(lipgloss.Center)
	label := lipgloss.NewStyle().Foreground(styles.TextMuted)
	value := lipgloss.NewStyle().Foreground(styles.Indigo).Bold(true)
	if pv.theme != nil {
		card, label, value = pv.theme.Card, pv.theme.CardLabel, pv.theme.CardValue
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = card.Render(lipgloss.JoinVertical(lipgloss.Center,
			label.Render(c.label),
			value.Render(util.TruncateWidth(c.value, cardValueWidth)),
		))
	}

	if pv.width > 0 && pv.width < 60 {
		return lipgloss.JoinVertical(lipgloss.Left, rendered...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderPriorities summarises how many chapters carry each priority.
func (pv *PlanView) renderPriorities(p *plan.Plan) string {
	counts := p.CountByPriority()
	parts := make([]string, 0, len(plan.Priorities))
	for _, pr := range plan.Priorities {
		badge := "[" + strings.ToUpper(string(pr)) + "]"
		if pv.theme != nil {
			badge = pv.theme.PriorityBadge(pr)
		}
		parts = append(parts, fmt.Sprintf("%s %d", badge, counts[pr]))
	}
	return lipgloss.NewStyle().Foreground(styles.TextSecondary).
		Render(util.Plural(p.ChapterCount(), "chapter", "chapters")+"  ") + strings.Join(parts, "  ")
}

func (pv *PlanView) renderBody(doc *export.Document) string {
	md, err := export.NewMarkdownExporter(&export.Options{SkipHeader: true}).Export(doc)
	if err != nil {
		return err.Error()
	}
	r := pv.glamourRenderer()
	if r == nil {
		return string(md)
	}
	out, err := r.Render(string(md))
	if err != nil {
		return string(md)
	}
	return out
}

// glamourRenderer caches a renderer per width and style.
func (pv *PlanView) glamourRenderer() *glamour.TermRenderer {
	width := pv.contentWidth()
	style := "dark"
	if pv.theme != nil {
		style = pv.theme.GlamourStyle()
	}
	if pv.renderer != nil && pv.rendererWidth == width && pv.rendererStyle == style {
		return pv.renderer
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	pv.renderer, pv.rendererWidth, pv.rendererStyle = r, width, style
	return r
}

func (pv *PlanView) contentWidth() int {
	w := pv.width
	if w <= 0 {
		w = 80
	}
	if pv.wordWrap > 0 && pv.wordWrap < w {
		w = pv.wordWrap
	}
	return w
}
