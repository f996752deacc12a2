// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/prepplan/internal/export"
)

// renderPlan writes doc as Markdown. On a color terminal the Markdown is
// rendered through glamour; piped output gets the raw Markdown so it can be
// saved as a file.
func renderPlan(w io.Writer, doc *export.Document, wordWrap int, styled bool) error {
	md, err := export.NewMarkdownExporter(&export.Options{}).Export(doc)
	if err != nil {
		return err
	}
	if !styled {
		_, err = w.Write(md)
		return err
	}
	_, err = io.WriteString(w, renderMarkdown(string(md), wordWrap))
	return err
}

// renderMarkdown renders markdown content for terminal display. Returns the
// original content if rendering fails.
func renderMarkdown(content string, wordWrap int) string {
	if wordWrap <= 0 || wordWrap > GetTerminalWidth() {
		wordWrap = GetTerminalWidth()
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
