// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prepplan/internal/export"
	"github.com/jeranaias/prepplan/internal/session"
	"github.com/jeranaias/prepplan/internal/ui/components"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.abort()
			m.quitting = true
			return m, tea.Quit
		}
		switch m.session.State() {
		case session.StateCollecting:
			return m.updateCollecting(msg)
		case session.StateLoading:
			// Only quit leaves loading early.
			return m, nil
		case session.StateResult:
			return m.updateResult(msg)
		case session.StateError:
			return m.updateError(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PlanResultMsg:
		return m.handlePlanResult(msg), nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.log.Error("plan export failed", "error", msg.Err)
			m.status = components.InlineError("Could not save plan: " + msg.Err.Error())
		} else {
			m.log.Info("plan exported", "path", msg.Path)
			m.status = components.InlineSuccess("Saved to " + msg.Path)
		}
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg)
		return m, nil
	}

	// Cursor blink and other widget messages.
	return m.forwardToInput(msg)
}

// =============================================================================
// COLLECTING
// =============================================================================

func (m Model) updateCollecting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step, ok := m.session.CurrentStep()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		if m.session.IsFirst() {
			return m, nil
		}
		m.session.Back()
		cmd := m.loadStep()
		return m, cmd

	case key.Matches(msg, m.keys.Next),
		key.Matches(msg, m.keys.Submit) && step.Kind != wizard.InputMultiline:
		if m.session.IsLast() {
			return m.submit()
		}
		m.session.Next()
		cmd := m.loadStep()
		return m, cmd
	}

	if step.Kind == wizard.InputChoice {
		m.updateChoice(step, msg)
		return m, nil
	}
	return m.forwardToInput(msg)
}

func (m *Model) updateChoice(step wizard.Step, msg tea.KeyMsg) {
	n := len(step.Choices)
	if n == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.ChoiceUp):
		m.choice = (m.choice - 1 + n) % n
	case key.Matches(msg, m.keys.ChoiceDown):
		m.choice = (m.choice + 1) % n
	default:
		i, err := strconv.Atoi(msg.String())
		if err != nil || i < 1 || i > n {
			return
		}
		m.choice = i - 1
	}
	m.gate = ""
	m.session.SetField(step.Field, step.Choices[m.choice].Value)
}

// forwardToInput hands msg to the focused widget and stores the new value.
func (m Model) forwardToInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	step, ok := m.session.CurrentStep()
	if !ok || step.Kind == wizard.InputChoice {
		return m, nil
	}

	var cmd tea.Cmd
	if step.Kind == wizard.InputMultiline {
		m.area, cmd = m.area.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}

	value := m.currentValue(step)
	if value != m.session.Answers().Get(step.Field) {
		m.session.SetField(step.Field, value)
		m.gate = ""
	}
	return m, cmd
}

// submit runs the submission gate and starts generation when it passes.
func (m Model) submit() (tea.Model, tea.Cmd) {
	sub, err := m.session.BeginSubmit()
	if err != nil {
		m.gate = gateMessage(err)
		return m, nil
	}

	m.input.Blur()
	m.area.Blur()
	m.doc = nil
	m.status = ""
	m.spinner.SetDetail(loadingDetail(sub.Answers))
	start := m.spinner.Start()
	gen := m.generate(sub)
	return m, tea.Batch(start, gen)
}

func (m *Model) generate(sub session.Submission) tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	gen := m.gen
	model := m.modelName()

	return func() tea.Msg {
		defer cancel()
		if gen == nil {
			return PlanResultMsg{Attempt: sub.Attempt, Err: errors.New("no generator configured")}
		}
		p, err := gen.Generate(ctx, sub.Answers)
		return PlanResultMsg{Attempt: sub.Attempt, Model: model, Plan: p, Err: err}
	}
}

func gateMessage(err error) string {
	var incomplete *session.IncompleteError
	if errors.As(err, &incomplete) {
		titles := make([]string, 0, len(incomplete.Missing))
		for _, f := range incomplete.Missing {
			titles = append(titles, stepTitle(f))
		}
		return "Please answer every required question first: " + strings.Join(titles, ", ")
	}
	return err.Error()
}

func stepTitle(f wizard.Field) string {
	for _, s := range wizard.Steps {
		if s.Field == f {
			return s.Title
		}
	}
	return string(f)
}

func loadingDetail(a wizard.Answers) string {
	detail := "Analysing " + strings.TrimSpace(a.ExamName)
	if a.ChaptersRemaining != "" {
		detail += " with " + strings.TrimSpace(a.ChaptersRemaining) + " chapters to go"
	}
	return detail
}

// =============================================================================
// LOADING, RESULT, ERROR
// =============================================================================

func (m Model) handlePlanResult(msg PlanResultMsg) Model {
	if !m.session.Complete(msg.Attempt, msg.Plan, msg.Err) {
		return m
	}
	m.cancel = nil
	m.spinner.Stop()

	if p := m.session.Plan(); p != nil {
		m.doc = &export.Document{
			Plan:        p,
			Answers:     m.session.Answers(),
			Model:       msg.Model,
			GeneratedAt: m.now(),
		}
		m.refreshResult()
	}
	return m
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewPlan):
		cmd := m.restart()
		return m, cmd
	case key.Matches(msg, m.keys.Save):
		if m.doc == nil {
			return m, nil
		}
		m.status = components.InlineInfo("Saving...")
		return m, m.exportCmd()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewPlan), key.Matches(msg, m.keys.Submit):
		cmd := m.restart()
		return m, cmd
	}
	return m, nil
}

// restart returns to step 1 from a result or error.
func (m *Model) restart() tea.Cmd {
	if err := m.session.Restart(); err != nil {
		m.log.Debug("restart refused", "error", err)
		return nil
	}
	m.spinner.Stop()
	m.doc = nil
	m.status = ""
	m.viewport.SetContent("")
	return m.loadStep()
}

func (m Model) exportCmd() tea.Cmd {
	doc, dir, format, now := m.doc, m.exportDir, m.exportFormat, m.now
	return func() tea.Msg {
		opts := &export.Options{OutputDir: dir, IncludeMetadata: true, Now: now}
		exp, err := export.ForFormat(format, opts)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path, err := export.ToFile(doc, exp, opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// =============================================================================
// CONFIG AND LAYOUT
// =============================================================================

func (m *Model) applyConfig(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		m.log.Warn("config reload failed", "error", msg.Err)
		m.status = components.InlineWarning("Config reload failed: " + msg.Err.Error())
		return
	}
	cfg := msg.Config
	if cfg == nil {
		return
	}
	if c, ok := m.gen.(configurable); ok {
		c.Configure(cfg.Gemini.Model, cfg.Gemini.Temperature)
	}
	m.header.SetModel(m.modelName())
	m.planView.SetWordWrap(cfg.UI.WordWrap)
	m.exportDir = cfg.Export.Dir
	m.exportFormat = cfg.Export.Format
	if m.doc != nil {
		m.refreshResult()
	}
	m.log.Info("config reloaded", "model", cfg.Gemini.Model, "temperature", cfg.Gemini.Temperature)
	m.status = components.InlineInfo("Config reloaded; model " + m.modelName())
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.help.Width = width

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	m.steps.SetWidth(min(inner, 60))
	m.input.Width = inner - 4
	m.area.SetWidth(inner)
	m.planView.SetWidth(inner)

	vh := height - lipgloss.Height(m.header.View()) - 3
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vh
	if m.doc != nil {
		m.refreshResult()
	}
}

func (m *Model) refreshResult() {
	m.viewport.SetContent(m.planView.Render(m.doc))
	m.viewport.GotoTop()
}
