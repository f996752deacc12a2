// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the prepplan TUI.

All colors use Lip Gloss AdaptiveColor so they follow the terminal
background. NewTheme takes the ui.theme config value ("auto", "dark",
"light") and pins the background when it is not auto.

# Color System (colors.go)

  - Indigo - primary accent for headings, the active step and selections
  - Cyan - brand color and key hints
  - Rose, Amber, Emerald - high, medium and low chapter priority; also
    error, warning and success

Every status color is paired with an ASCII indicator ([OK], [X], [!]) so
nothing is conveyed by color alone.

# Theme (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
	fmt.Println(theme.Question.Render("When is your exam?"))
	fmt.Println(theme.PriorityBadge(plan.PriorityHigh))

GlamourStyle returns the matching glamour standard style for rendering
plan Markdown.
*/
package styles
