// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/prepplan/internal/session"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the planner.
type KeyMap struct {
	Next   key.Binding
	Submit key.Binding
	Back   key.Binding

	ChoiceUp   key.Binding
	ChoiceDown key.Binding

	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding

	NewPlan key.Binding
	Save    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("shift+tab", "esc"),
			key.WithHelp("S-Tab/Esc", "back"),
		),
		ChoiceUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous option"),
		),
		ChoiceDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next option"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d", " "),
			key.WithHelp("PgDn", "page down"),
		),
		NewPlan: key.NewBinding(
			key.WithKeys("n", "r"),
			key.WithHelp("n", "create a new plan"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save plan"),
		),
		Close: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// =============================================================================
// CONTEXT HELP
// =============================================================================

// HelpFor returns the bindings worth showing in a given state. kind is the
// input kind of the current step and last whether it is the final step.
func (k KeyMap) HelpFor(state session.State, kind wizard.InputKind, first, last bool) []key.Binding {
	switch state {
	case session.StateCollecting:
		var out []key.Binding
		submit := k.Submit
		if last {
			submit.SetHelp("Enter", "generate plan")
		}
		if kind == wizard.InputMultiline {
			next := k.Next
			if last {
				next.SetHelp("Tab", "generate plan")
			}
			out = append(out, next)
		} else {
			out = append(out, submit)
		}
		if kind == wizard.InputChoice {
			out = append(out, k.ChoiceUp, k.ChoiceDown)
		}
		if !first {
			out = append(out, k.Back)
		}
		return append(out, k.Quit)
	case session.StateLoading:
		return []key.Binding{k.Quit}
	case session.StateResult:
		return []key.Binding{k.ScrollUp, k.ScrollDown, k.NewPlan, k.Save, k.Close}
	case session.StateError:
		retry := k.NewPlan
		retry.SetHelp("r", "start over")
		return []key.Binding{retry, k.Close}
	}
	return []key.Binding{k.Quit}
}
