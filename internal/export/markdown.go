// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/prepplan/internal/plan"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports plans to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a plan to Markdown format.
func (e *MarkdownExporter) Export(doc *Document) ([]byte, error) {
	if err := doc.check(); err != nil {
		return nil, err
	}
	p := doc.Plan

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(p.Title)))
		if doc.Answers.ExamName != "" {
			sb.WriteString(fmt.Sprintf("exam: %s\n", escapeYAML(doc.Answers.ExamName)))
		}
		if doc.Answers.ExamDate != "" {
			sb.WriteString(fmt.Sprintf("exam_date: %s\n", escapeYAML(doc.Answers.ExamDate)))
		}
		if doc.Answers.TargetScore != "" {
			sb.WriteString(fmt.Sprintf("target_score: %s\n", escapeYAML(doc.Answers.TargetScore)))
		}
		if doc.Model != "" {
			sb.WriteString(fmt.Sprintf("model: %s\n", doc.Model))
		}
		if !doc.GeneratedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("generated: %s\n", doc.GeneratedAt.Format(time.RFC3339)))
		}
		sb.WriteString("generator: prepplan\n")
		sb.WriteString("---\n\n")
	}

	if !e.options.SkipHeader {
		sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(p.Title)))
		if s := strings.TrimSpace(p.Summary); s != "" {
			sb.WriteString(s)
			sb.WriteString("\n\n")
		}

		// Info cards
		target := doc.Answers.TargetScore
		if target == "" {
			target = "-"
		}
		sb.WriteString("| Days Left | Daily Hours | Target Score |\n")
		sb.WriteString("|---|---|---|\n")
		sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n\n", p.TotalDays, escapeCell(p.TotalHours), escapeCell(target)))
	}

	sb.WriteString("## Study Phases\n\n")
	for _, ph := range p.StudyPhases {
		sb.WriteString(fmt.Sprintf("### %s\n\n", escapeMarkdown(ph.Phase)))
		if ph.Focus != "" {
			sb.WriteString(fmt.Sprintf("*Focus: %s*\n\n", strings.TrimSpace(ph.Focus)))
		}
		for _, ch := range ph.Chapters {
			sb.WriteString(e.formatChapter(ch))
		}
	}

	advice := p.DetailedAdvice
	if len(advice.WeeklyGoals) > 0 {
		sb.WriteString("## Weekly Goals\n\n")
		for i, g := range advice.WeeklyGoals {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, g))
		}
		sb.WriteString("\n")
	}
	if s := strings.TrimSpace(advice.MockTestStrategy); s != "" {
		sb.WriteString("## Mock Test Strategy\n\n")
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}

	if len(p.RecommendedSources) > 0 {
		sb.WriteString("## Recommended Sources\n\n")
		for _, src := range p.RecommendedSources {
			sb.WriteString(fmt.Sprintf("- **%s**", escapeMarkdown(src.Name)))
			if src.Type != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", src.Type))
			}
			if src.Reason != "" {
				sb.WriteString(": " + src.Reason)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if s := strings.TrimSpace(p.FinalWords); s != "" {
		sb.WriteString("## Final Words\n\n")
		for _, line := range strings.Split(s, "\n") {
			sb.WriteString("> " + line + "\n")
		}
		sb.WriteString("\n")
	}

	if e.options.IncludeMetadata {
		stamp := doc.GeneratedAt
		if stamp.IsZero() {
			stamp = time.Now()
		}
		sb.WriteString("---\n\n")
		sb.WriteString(fmt.Sprintf("*Generated by prepplan on %s*\n", formatDate(stamp)))
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func (e *MarkdownExporter) formatChapter(ch plan.ChapterPlan) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("#### %s %s\n\n", escapeMarkdown(ch.ChapterName), priorityBadge(ch.Priority)))
	if ch.QuestionsToSolve != "" {
		sb.WriteString(fmt.Sprintf("- **Questions to solve**: %s\n", ch.QuestionsToSolve))
	}
	if len(ch.KeyTopics) > 0 {
		sb.WriteString(fmt.Sprintf("- **Key topics**: %s\n", strings.Join(ch.KeyTopics, ", ")))
	}
	if len(ch.RevisionPlan) > 0 {
		sb.WriteString("- **Revision**:\n")
		for i, r := range ch.RevisionPlan {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, r))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// priorityBadge renders the priority as inline code so it stands out in
// both the terminal renderer and plain viewers.
func priorityBadge(p plan.Priority) string {
	if p == "" {
		return ""
	}
	return fmt.Sprintf("`%s`", strings.ToUpper(string(p)))
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
