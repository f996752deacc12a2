// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/prepplan/internal/export"
	"github.com/jeranaias/prepplan/internal/session"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// backToken typed on its own returns to the previous question.
const backToken = "<"

// lineReader is the part of *liner.State the prompt loop uses.
type lineReader interface {
	PromptWithSuggestion(prompt, text string, pos int) (string, error)
}

// planGenerator is a session.Generator that can name its model.
type planGenerator interface {
	session.Generator
	Model() string
}

// errAborted ends the prompt loop on ctrl+c or end of input.
var errAborted = errors.New("aborted")

func newAskCmd(flags *globalFlags) *cobra.Command {
	var saveDir string
	var save bool

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer the six questions line by line and print the plan",
		Long: `Ask walks through the questions in the terminal without the full-screen
interface. Each prompt is prefilled with the current answer; press enter to
keep it, or type '<' to go back one question.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := RequiresTTY("prompt for answers"); err != nil {
				return err
			}
			e, err := loadEnv(flags)
			if err != nil {
				return err
			}
			defer e.log.Sync()

			ctx := cmd.Context()
			sess := session.New(e.log)
			client, release, err := e.generator(ctx, sess.ID())
			if err != nil {
				return err
			}
			defer release()

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)

			out := cmd.OutOrStdout()
			doc, err := runAsk(ctx, line, out, sess, client, time.Now)
			if err != nil || doc == nil {
				return err
			}
			if err := renderPlan(out, doc, e.cfg.UI.WordWrap, ColorsEnabled()); err != nil {
				return err
			}
			if !save && saveDir == "" {
				return nil
			}
			if saveDir == "" {
				saveDir = e.cfg.Export.Dir
			}
			path, err := saveDocument(doc, e.cfg.Export.Format, saveDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, RenderStatus("ok")+" Saved to "+path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Save the plan to the export directory")
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "Save the plan to this directory")
	return cmd
}

// runAsk drives sess through the questions and one generation. It returns
// the finished document, or nil when the user gave up.
func runAsk(ctx context.Context, r lineReader, w io.Writer, sess *session.Controller, gen planGenerator, now func() time.Time) (*export.Document, error) {
	for {
		err := askAll(r, w, sess, now)
		if errors.Is(err, errAborted) {
			fmt.Fprintln(w, DimStyle.Render("Cancelled."))
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, DimStyle.Render("Generating your study plan with "+gen.Model()+"..."))
		started := now()
		if err := sess.Submit(ctx, gen); err != nil {
			DisplayError(w, err, false)
			again, promptErr := r.PromptWithSuggestion("Start over? [y/N] ", "", -1)
			if promptErr != nil || !isYes(again) {
				return nil, reportedError{err}
			}
			if err := sess.Restart(); err != nil {
				return nil, err
			}
			continue
		}
		fmt.Fprintln(w, RenderStatus("ok")+" Plan ready in "+formatDurationShort(now().Sub(started)))
		fmt.Fprintln(w)

		return &export.Document{
			Plan:        sess.Plan(),
			Answers:     sess.Answers(),
			Model:       gen.Model(),
			GeneratedAt: now(),
		}, nil
	}
}

// askAll prompts until every required answer is present and the cursor
// sits on the final question.
func askAll(r lineReader, w io.Writer, sess *session.Controller, now func() time.Time) error {
	for sess.State() == session.StateCollecting {
		step, ok := sess.CurrentStep()
		if !ok {
			return fmt.Errorf("no question at step %d", sess.Step())
		}
		printQuestion(w, sess, step)

		input, err := r.PromptWithSuggestion("> ", prefill(step, sess.Answers()), -1)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return errAborted
			}
			return err
		}
		input = strings.TrimSpace(input)

		if input == backToken {
			sess.Back()
			continue
		}

		value := input
		if step.Kind == wizard.InputChoice {
			style, err := wizard.ParseStudyStyle(input)
			if err != nil {
				fmt.Fprintln(w, WarningStyle.Render("Pick 1-"+strconv.Itoa(len(step.Choices))+"."))
				continue
			}
			value = string(style)
		}
		sess.SetField(step.Field, value)

		if warn := step.Advisory(value, now()); warn != nil {
			fmt.Fprintln(w, WarningStyle.Render("Note: "+warn.Error()))
		}

		if !sess.IsLast() {
			sess.Next()
			continue
		}

		missing := sess.Answers().Missing()
		if len(missing) == 0 {
			return nil
		}
		fmt.Fprintln(w, ErrorStyle.Render("Please answer every required question first: "+missingTitles(missing)))
		rewindTo(sess, missing[0])
	}
	return nil
}

func printQuestion(w io.Writer, sess *session.Controller, step wizard.Step) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n",
		DimStyle.Render(fmt.Sprintf("[%d/%d]", sess.Step(), sess.Total())),
		TitleStyle.Render(step.Title))

	label := step.Label
	if step.Optional() && !strings.Contains(label, "optional") {
		label += " (optional)"
	}
	fmt.Fprintln(w, QuestionStyle.Render(label))

	for i, c := range step.Choices {
		fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render(strconv.Itoa(i+1)+")"), c.Label)
	}
	if step.Hint != "" {
		fmt.Fprintln(w, DimStyle.Render(step.Hint))
	}
	if !sess.IsFirst() {
		fmt.Fprintln(w, DimStyle.Render("'"+backToken+"' goes back"))
	}
}

// prefill is the editable text a prompt starts with. Choice steps show the
// 1-based number of the current choice.
func prefill(step wizard.Step, answers wizard.Answers) string {
	value := answers.Get(step.Field)
	if step.Kind == wizard.InputChoice {
		return strconv.Itoa(step.ChoiceIndex(value) + 1)
	}
	return value
}

func missingTitles(missing []wizard.Field) string {
	titles := make([]string, 0, len(missing))
	for _, f := range missing {
		for _, s := range wizard.Steps {
			if s.Field == f {
				titles = append(titles, s.Title)
				break
			}
		}
	}
	return strings.Join(titles, ", ")
}

// rewindTo moves the cursor back to the step holding field f.
func rewindTo(sess *session.Controller, f wizard.Field) {
	for !sess.IsFirst() {
		if step, ok := sess.CurrentStep(); ok && step.Field == f {
			return
		}
		sess.Back()
	}
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

// saveDocument writes doc into dir in the given export format.
func saveDocument(doc *export.Document, format, dir string) (string, error) {
	opts := &export.Options{OutputDir: dir, IncludeMetadata: true}
	exp, err := export.ForFormat(format, opts)
	if err != nil {
		return "", NewValidationErrorWithExample("format", format, err.Error(), "--format markdown")
	}
	return export.ToFile(doc, exp, opts)
}
