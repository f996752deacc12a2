// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/prepplan/internal/export"
	"github.com/jeranaias/prepplan/internal/logging"
	"github.com/jeranaias/prepplan/internal/session"
	"github.com/jeranaias/prepplan/internal/ui/components"
	"github.com/jeranaias/prepplan/internal/ui/styles"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// Generators may also report and switch their model; the header and config
// reloads use these when present.
type modelNamer interface {
	Model() string
}

type configurable interface {
	Configure(model string, temperature float64)
}

// Options configures a Model.
type Options struct {
	Generator session.Generator
	Log       *logging.Logger
	Theme     *styles.Theme

	// WordWrap caps the width of the rendered plan (0 = terminal width).
	WordWrap int

	ExportDir    string
	ExportFormat string

	// LogsPath is shown in the error view.
	LogsPath string

	// Now is the clock for advisory date checks and export names.
	Now func() time.Time
}

// Model is the Bubble Tea model of the planner.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *session.Controller
	gen     session.Generator
	log     *logging.Logger
	now     func() time.Time

	theme    *styles.Theme
	keys     KeyMap
	help     help.Model
	header   *components.Header
	steps    *components.StepIndicator
	spinner  components.Spinner
	planView *components.PlanView
	viewport viewport.Model

	input  textinput.Model
	area   textarea.Model
	choice int

	gate   string
	status string
	doc    *export.Document

	exportDir    string
	exportFormat string
	logsPath     string

	width    int
	height   int
	quitting bool
}

// New creates the planner model around sess.
func New(ctx context.Context, sess *session.Controller, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Log == nil {
		opts.Log = logging.NewNop()
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.ModeAuto)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 120

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(4)

	m := Model{
		ctx:          ctx,
		session:      sess,
		gen:          opts.Generator,
		log:          opts.Log.With("component", "tui"),
		now:          opts.Now,
		theme:        opts.Theme,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		header:       components.NewHeader(opts.Theme),
		steps:        components.NewStepIndicator(opts.Theme),
		spinner:      components.NewSpinner("Crafting your study plan"),
		planView:     components.NewPlanView(opts.Theme, 80, opts.WordWrap),
		viewport:     viewport.New(80, 20),
		input:        ti,
		area:         ta,
		exportDir:    opts.ExportDir,
		exportFormat: opts.ExportFormat,
		logsPath:     opts.LogsPath,
	}
	if n, ok := m.gen.(modelNamer); ok {
		m.header.SetModel(n.Model())
	}
	m.loadStep()
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Session returns the controller driven by this model.
func (m Model) Session() *session.Controller { return m.session }

// NewProgram wraps m in a full-screen program bound to ctx.
func NewProgram(ctx context.Context, m Model) *tea.Program {
	return tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
}

// =============================================================================
// STEP INPUTS
// =============================================================================

// loadStep points the input widgets at the current step and fills them with
// the stored answer, so going back shows what was typed before.
func (m *Model) loadStep() tea.Cmd {
	m.gate = ""
	step, ok := m.session.CurrentStep()
	if !ok {
		return nil
	}
	value := m.session.Answers().Get(step.Field)

	m.input.Blur()
	m.area.Blur()

	switch step.Kind {
	case wizard.InputChoice:
		m.choice = step.ChoiceIndex(value)
		return nil
	case wizard.InputMultiline:
		m.area.Placeholder = step.Placeholder
		m.area.SetValue(value)
		return m.area.Focus()
	default:
		m.input.Reset()
		m.input.Placeholder = step.Placeholder
		m.input.CharLimit = charLimit(step.Kind)
		m.input.SetValue(value)
		m.input.CursorEnd()
		return m.input.Focus()
	}
}

func charLimit(kind wizard.InputKind) int {
	switch kind {
	case wizard.InputNumber:
		return 4
	case wizard.InputDate:
		return len(wizard.DateLayout)
	default:
		return 120
	}
}

// currentValue is what the active widget holds for the current step.
func (m *Model) currentValue(step wizard.Step) string {
	switch step.Kind {
	case wizard.InputChoice:
		if m.choice >= 0 && m.choice < len(step.Choices) {
			return step.Choices[m.choice].Value
		}
		return ""
	case wizard.InputMultiline:
		return m.area.Value()
	default:
		return m.input.Value()
	}
}

func (m *Model) modelName() string {
	if n, ok := m.gen.(modelNamer); ok {
		return n.Model()
	}
	return ""
}

// abort cancels the in-flight generation, if any.
func (m *Model) abort() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
