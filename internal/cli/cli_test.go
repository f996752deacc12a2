// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/jeranaias/prepplan/internal/config"
	"github.com/jeranaias/prepplan/internal/gemini"
	"github.com/jeranaias/prepplan/internal/logging"
	"github.com/jeranaias/prepplan/internal/plan"
	"github.com/jeranaias/prepplan/internal/plan/plantest"
	"github.com/jeranaias/prepplan/internal/session"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// =============================================================================
// FIXTURES
// =============================================================================

// fakeModels stands in for the Gemini models service.
type fakeModels struct {
	calls   int
	prompt  string
	reply   string
	respErr error
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.respErr != nil {
		return nil, f.respErr
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: []*genai.Part{{Text: f.reply}}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     800,
			CandidatesTokenCount: 1200,
		},
	}, nil
}

// setupEnv isolates the config directory and routes clients to fake.
func setupEnv(t *testing.T, fake *fakeModels) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("PREPPLAN_HOME", home)
	t.Setenv("PREPPLAN_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "test-key-1234")
	t.Setenv("PREPPLAN_MODEL", "")
	t.Setenv("PREPPLAN_LOG_LEVEL", "")
	t.Setenv("PREPPLAN_THEME", "")
	t.Setenv("PREPPLAN_EXPORT_DIR", "")

	orig := newClient
	newClient = func(_ context.Context, cfg gemini.Config, log *logging.Logger) (*gemini.Client, error) {
		return gemini.NewWithModels(fake, cfg, log), nil
	}
	t.Cleanup(func() { newClient = orig })
	return home
}

// run executes the command tree with args and returns stdout, stderr and
// the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func neetArgs(extra ...string) []string {
	args := []string{"generate",
		"--exam", "NEET UG",
		"--chapters", "15",
		"--date", time.Now().AddDate(0, 0, 30).Format(wizard.DateLayout),
		"--style", "QuestionSolving",
		"--target", "650+",
		"--completed", "Cell Structure, Kinematics",
	}
	return append(args, extra...)
}

// =============================================================================
// GENERATE
// =============================================================================

func TestGenerate_JSON(t *testing.T) {
	fake := &fakeModels{reply: plantest.ValidJSON}
	setupEnv(t, fake)

	out, stderr, err := run(t, neetArgs("--json")...)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, 1, fake.calls)
	assert.Contains(t, fake.prompt, "NEET UG")
	assert.Contains(t, fake.prompt, "650+")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Contains(t, out, "Operation 650+: Your NEET UG Sprint")
}

func TestGenerate_Markdown(t *testing.T) {
	setupEnv(t, &fakeModels{reply: plantest.ValidJSON})

	out, _, err := run(t, neetArgs()...)
	require.NoError(t, err)
	assert.Contains(t, out, "Operation 650+: Your NEET UG Sprint")
	assert.Contains(t, out, "Human Physiology")
}

func TestGenerate_MissingRequiredAnswers(t *testing.T) {
	fake := &fakeModels{reply: plantest.ValidJSON}
	setupEnv(t, fake)

	_, _, err := run(t, "generate", "--chapters", "10", "--date", "2099-01-01")
	require.Error(t, err)

	var missing *session.IncompleteError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []wizard.Field{wizard.FieldExamName, wizard.FieldTargetScore}, missing.Missing)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Zero(t, fake.calls)
}

func TestGenerate_MissingRequiredAnswers_JSON(t *testing.T) {
	setupEnv(t, &fakeModels{})

	out, _, err := run(t, "generate", "--exam", "JEE", "--json")
	require.Error(t, err)

	var reported reportedError
	assert.ErrorAs(t, err, &reported)
	assert.Contains(t, out, `"validation_error"`)
	assert.Contains(t, out, `"chaptersRemaining"`)
}

func TestGenerate_BadStyle(t *testing.T) {
	fake := &fakeModels{}
	setupEnv(t, fake)

	_, _, err := run(t, neetArgs("--style", "cramming")...)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Zero(t, fake.calls)
}

func TestGenerate_StyleByNumber(t *testing.T) {
	fake := &fakeModels{reply: plantest.ValidJSON}
	setupEnv(t, fake)

	_, _, err := run(t, neetArgs("--style", "3")...)
	require.NoError(t, err)
	assert.Contains(t, fake.prompt, "balanced")
}

func TestGenerate_AdvisoryDoesNotBlock(t *testing.T) {
	fake := &fakeModels{reply: plantest.ValidJSON}
	setupEnv(t, fake)

	_, stderr, err := run(t, neetArgs("--chapters", "lots")...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning: chaptersRemaining")
	assert.Equal(t, 1, fake.calls)
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	fake := &fakeModels{}
	setupEnv(t, fake)
	t.Setenv("GEMINI_API_KEY", "")

	_, _, err := run(t, neetArgs()...)
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
	assert.Zero(t, fake.calls)
}

func TestGenerate_MissingAPIKeyBeatsMissingAnswers(t *testing.T) {
	fake := &fakeModels{}
	setupEnv(t, fake)
	t.Setenv("GEMINI_API_KEY", "")

	_, _, err := run(t, "generate", "--chapters", "10", "--style", "cramming")
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	var missing *session.IncompleteError
	assert.False(t, errors.As(err, &missing))
	assert.Zero(t, fake.calls)
}

func TestGenerate_GenerationFailure(t *testing.T) {
	setupEnv(t, &fakeModels{respErr: errors.New("503 unavailable")})

	_, _, err := run(t, neetArgs()...)
	require.ErrorIs(t, err, gemini.ErrGeneration)
	assert.Equal(t, ExitGenerationError, GetExitCode(err))

	var buf bytes.Buffer
	DisplayError(&buf, err, false)
	assert.Contains(t, buf.String(), gemini.UserMessage)
	assert.NotContains(t, buf.String(), "503")
}

func TestGenerate_GenerationFailure_JSON(t *testing.T) {
	setupEnv(t, &fakeModels{reply: "not json"})

	out, _, err := run(t, neetArgs("--json")...)
	require.Error(t, err)
	assert.Equal(t, ExitGenerationError, GetExitCode(err))

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload), out)
	assert.Equal(t, "generation_error", payload["error_type"])
	assert.Equal(t, gemini.UserMessage, payload["error"])
	assert.Equal(t, false, payload["success"])
}

func TestGenerate_SaveToDirectory(t *testing.T) {
	setupEnv(t, &fakeModels{reply: plantest.ValidJSON})
	dir := t.TempDir()

	_, stderr, err := run(t, neetArgs("--out", dir, "--format", "json")...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Saved to")

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Human Physiology")
}

func TestGenerate_UnknownSaveFormat(t *testing.T) {
	setupEnv(t, &fakeModels{reply: plantest.ValidJSON})

	_, _, err := run(t, neetArgs("--out", t.TempDir(), "--format", "pdf")...)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// USAGE
// =============================================================================

func TestUsage_EmptyLedger(t *testing.T) {
	setupEnv(t, &fakeModels{})

	out, _, err := run(t, "usage")
	require.NoError(t, err)
	assert.Contains(t, out, "No generations recorded yet.")
}

func TestUsage_RecordsGenerations(t *testing.T) {
	fake := &fakeModels{reply: plantest.ValidJSON}
	setupEnv(t, fake)

	_, _, err := run(t, neetArgs()...)
	require.NoError(t, err)

	fake.reply = "{"
	_, _, err = run(t, neetArgs()...)
	require.Error(t, err)

	out, _, err := run(t, "usage", "--json")
	require.NoError(t, err)

	var report usageReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, 2, report.Totals.Generations)
	assert.Equal(t, 1, report.Totals.Failures)
	require.Len(t, report.Recent, 2)
	assert.NotContains(t, out, "NEET UG")

	out, _, err = run(t, "usage")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan Generations")
	assert.Contains(t, out, "[OK]")
	assert.Contains(t, out, "[FAIL]")
}

func TestUsage_DisabledLedger(t *testing.T) {
	fake := &fakeModels{reply: plantest.ValidJSON}
	setupEnv(t, fake)

	_, _, err := run(t, "config", "set", "usage.enabled", "false")
	require.NoError(t, err)
	_, _, err = run(t, neetArgs()...)
	require.NoError(t, err)

	out, _, err := run(t, "usage")
	require.NoError(t, err)
	assert.Contains(t, out, "No generations recorded yet.")
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_SetGet(t *testing.T) {
	home := setupEnv(t, &fakeModels{})

	out, _, err := run(t, "config", "set", "ui.theme", "light")
	require.NoError(t, err)
	assert.Contains(t, out, "ui.theme = light")

	out, _, err = run(t, "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	data, err := os.ReadFile(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `theme = "light"`)
}

func TestConfig_SetNeverPersistsEnvKey(t *testing.T) {
	home := setupEnv(t, &fakeModels{})

	_, _, err := run(t, "config", "set", "gemini.model", "gemini-2.5-pro")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "test-key-1234")
	assert.Contains(t, string(data), "gemini-2.5-pro")
}

func TestConfig_SetRejectsInvalid(t *testing.T) {
	setupEnv(t, &fakeModels{})

	_, _, err := run(t, "config", "set", "nope.key", "1")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, _, err = run(t, "config", "set", "ui.theme", "neon")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

func TestConfig_ShowMasksKey(t *testing.T) {
	setupEnv(t, &fakeModels{})

	out, _, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[gemini]")
	assert.Contains(t, out, "********1234")
	assert.NotContains(t, out, "test-key-1234")

	out, _, err = run(t, "config", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "test-key-1234")
}

func TestConfig_InitAndPath(t *testing.T) {
	home := setupEnv(t, &fakeModels{})
	want := filepath.Join(home, "config.toml")

	out, _, err := run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, want)
	assert.FileExists(t, want)

	out, _, err = run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, _, err = run(t, "config", "path", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"exists": true`)
}

// =============================================================================
// ROOT
// =============================================================================

func TestRoot_RequiresTerminal(t *testing.T) {
	setupEnv(t, &fakeModels{})
	orig := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	for _, args := range [][]string{nil, {"ask"}} {
		_, _, err := run(t, args...)
		var ttyErr *TTYRequiredError
		require.ErrorAs(t, err, &ttyErr)
		assert.Equal(t, ExitTTYError, GetExitCode(err))
		assert.Contains(t, err.Error(), "prepplan generate")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "prepplan "+Version))
}

// =============================================================================
// LINE MODE
// =============================================================================

// scriptedReader replays canned input lines. An empty reply keeps the
// prefilled text, the same as pressing enter at a liner prompt.
type scriptedReader struct {
	lines    []string
	prefills []string
}

func (r *scriptedReader) PromptWithSuggestion(_ string, text string, _ int) (string, error) {
	r.prefills = append(r.prefills, text)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "" {
		return text, nil
	}
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

type stubGenerator struct {
	calls int
	got   wizard.Answers
	errs  []error
}

func (g *stubGenerator) Generate(_ context.Context, a wizard.Answers) (*plan.Plan, error) {
	g.calls++
	g.got = a
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return plantest.Valid(), nil
}

func (g *stubGenerator) Model() string { return "gemini-test" }

var askNow = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }

func TestRunAsk_NEET(t *testing.T) {
	r := &scriptedReader{lines: []string{
		"NEET UG",
		"15",
		"<", // back to chapters remaining
		"",  // keep 15
		"Cell Structure",
		"2026-11-15",
		"9", // out of range, asked again
		"1",
		"650+",
	}}
	gen := &stubGenerator{}
	var out bytes.Buffer

	doc, err := runAsk(context.Background(), r, &out, session.New(nil), gen, askNow)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, wizard.Answers{
		ExamName:          "NEET UG",
		ChaptersRemaining: "15",
		ChaptersCompleted: "Cell Structure",
		ExamDate:          "2026-11-15",
		StudyStyle:        wizard.StyleQuestionSolving,
		TargetScore:       "650+",
	}, gen.got)
	assert.Equal(t, "Operation 650+: Your NEET UG Sprint", doc.Plan.Title)
	assert.Equal(t, "gemini-test", doc.Model)

	assert.Contains(t, r.prefills, "15")
	assert.Contains(t, out.String(), "Pick 1-3.")
	assert.Contains(t, out.String(), "[6/6]")
	assert.Contains(t, out.String(), "Plan ready")
}

func TestRunAsk_AdvisoryWarning(t *testing.T) {
	r := &scriptedReader{lines: []string{"JEE", "0", "", "2020-01-01", "", "99 percentile"}}
	gen := &stubGenerator{}
	var out bytes.Buffer

	doc, err := runAsk(context.Background(), r, &out, session.New(nil), gen, askNow)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 2, strings.Count(out.String(), "Note: "))
	assert.Equal(t, "0", gen.got.ChaptersRemaining)
}

func TestRunAsk_RewindsToMissing(t *testing.T) {
	r := &scriptedReader{lines: []string{
		"", // exam left blank
		"12", "", "2026-12-01", "", "Top 500",
		"CBSE Class 12", // asked again for the exam
		"", "", "", "", "",
	}}
	gen := &stubGenerator{}
	var out bytes.Buffer

	doc, err := runAsk(context.Background(), r, &out, session.New(nil), gen, askNow)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Contains(t, out.String(), "Please answer every required question first: Exam Details")
	assert.Equal(t, "CBSE Class 12", gen.got.ExamName)
	assert.Equal(t, "Top 500", gen.got.TargetScore)
}

func TestRunAsk_Abort(t *testing.T) {
	r := &scriptedReader{lines: []string{"NEET", "^C"}}
	gen := &stubGenerator{}
	var out bytes.Buffer

	doc, err := runAsk(context.Background(), r, &out, session.New(nil), gen, askNow)
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Zero(t, gen.calls)
	assert.Contains(t, out.String(), "Cancelled.")
}

func TestRunAsk_FailureThenStartOver(t *testing.T) {
	answers := []string{"NEET UG", "15", "", "2026-11-15", "", "650+"}
	lines := append([]string{}, answers...)
	lines = append(lines, "y")
	lines = append(lines, answers...)

	r := &scriptedReader{lines: lines}
	gen := &stubGenerator{errs: []error{gemini.ErrGeneration}}
	sess := session.New(nil)
	var out bytes.Buffer

	doc, err := runAsk(context.Background(), r, &out, sess, gen, askNow)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 2, gen.calls)
	assert.Contains(t, out.String(), gemini.UserMessage)
	assert.Equal(t, session.StateResult, sess.State())
}

func TestRunAsk_FailureGiveUp(t *testing.T) {
	r := &scriptedReader{lines: []string{"NEET UG", "15", "", "2026-11-15", "", "650+", "n"}}
	gen := &stubGenerator{errs: []error{gemini.ErrGeneration}}
	var out bytes.Buffer

	doc, err := runAsk(context.Background(), r, &out, session.New(nil), gen, askNow)
	assert.Nil(t, doc)
	require.ErrorIs(t, err, gemini.ErrGeneration)

	var reported reportedError
	assert.ErrorAs(t, err, &reported)
	assert.Equal(t, ExitGenerationError, GetExitCode(err))
}

func TestPrefill(t *testing.T) {
	style, _ := wizard.StepAt(5)
	name, _ := wizard.StepAt(1)

	answers := wizard.DefaultAnswers()
	assert.Equal(t, "1", prefill(style, answers))
	answers.StudyStyle = wizard.StyleBalanced
	assert.Equal(t, "3", prefill(style, answers))

	answers.ExamName = "NEET"
	assert.Equal(t, "NEET", prefill(name, answers))
}

// =============================================================================
// HELPERS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"incomplete", &session.IncompleteError{Missing: []wizard.Field{wizard.FieldExamName}}, ExitUsageError},
		{"validation", NewValidationErrorWithExample("style", "x", "bad", "--style 1"), ExitUsageError},
		{"api key", config.ErrMissingAPIKey, ExitConfigError},
		{"generation", &gemini.GenerationError{Stage: gemini.StageDecode, Err: errors.New("eof")}, ExitGenerationError},
		{"tty", &TTYRequiredError{Operation: "x"}, ExitTTYError},
		{"reported", reportedError{gemini.ErrGeneration}, ExitGenerationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "-12,345", formatNumber(-12345))
}

func TestFormatDurationShort(t *testing.T) {
	assert.Equal(t, "250ms", formatDurationShort(250*time.Millisecond))
	assert.Equal(t, "4.5s", formatDurationShort(4500*time.Millisecond))
	assert.Equal(t, "2m5s", formatDurationShort(125*time.Second))
	assert.Equal(t, "1h30m", formatDurationShort(90*time.Minute))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", maskSecret("abc"))
	assert.Equal(t, "********wxyz", maskSecret("AIzaSy-secret-wxyz"))
	assert.Equal(t, "(not set)", displayValue(apiKeyKey, ""))
	assert.Equal(t, "(default)", displayValue("export.dir", ""))
}
