// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/prepplan/internal/export"
	"github.com/jeranaias/prepplan/internal/session"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// generateOptions holds the answers passed as flags.
type generateOptions struct {
	exam      string
	chapters  string
	completed string
	date      string
	style     string
	target    string

	json   bool
	outDir string
	format string
}

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a plan from flags without prompting",
		Long: `Generate builds a study plan in one shot from flag values. It needs no
terminal, so it suits scripts and pipes.`,
		Example: `  prepplan generate --exam "NEET UG" --chapters 12 --date 2026-05-03 \
      --style QuestionSolving --target "650+" --completed "Cell Structure, Kinematics"

  prepplan generate --exam JEE --chapters 20 --date 2026-04-10 --target "Under 1000 rank" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runGenerate(cmd, flags, opts)
			if err != nil && opts.json {
				DisplayErrorJSON(cmd.OutOrStdout(), err)
				return reportedError{err}
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.exam, "exam", "", "Exam name (e.g. \"NEET UG\")")
	f.StringVar(&opts.chapters, "chapters", "", "Number of chapters remaining")
	f.StringVar(&opts.completed, "completed", "", "Chapters already completed (optional)")
	f.StringVar(&opts.date, "date", "", "Exam date, YYYY-MM-DD")
	f.StringVar(&opts.style, "style", string(wizard.StyleQuestionSolving), "Study style: QuestionSolving, RoteLearning, Balanced (or 1-3)")
	f.StringVar(&opts.target, "target", "", "Target score or rank")
	f.BoolVar(&opts.json, "json", false, "Print the plan as JSON")
	f.StringVarP(&opts.outDir, "out", "o", "", "Also save the plan into this directory")
	f.StringVar(&opts.format, "format", "", "Save format: markdown or json (default from config)")
	return cmd
}

func runGenerate(cmd *cobra.Command, flags *globalFlags, opts *generateOptions) error {
	e, err := loadEnv(flags)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	// The credential is checked before any answer.
	ctx := cmd.Context()
	sess := session.New(e.log)
	client, release, err := e.generator(ctx, sess.ID())
	if err != nil {
		return err
	}
	defer release()

	style, err := wizard.ParseStudyStyle(opts.style)
	if err != nil {
		return NewValidationErrorWithExample("style", opts.style, err.Error(), "--style Balanced")
	}

	values := map[wizard.Field]string{
		wizard.FieldExamName:          opts.exam,
		wizard.FieldChaptersRemaining: opts.chapters,
		wizard.FieldChaptersCompleted: opts.completed,
		wizard.FieldExamDate:          opts.date,
		wizard.FieldStudyStyle:        string(style),
		wizard.FieldTargetScore:       opts.target,
	}

	stderr := cmd.ErrOrStderr()
	now := time.Now()
	for {
		step, _ := sess.CurrentStep()
		value := values[step.Field]
		sess.SetField(step.Field, value)
		if warn := step.Advisory(value, now); warn != nil {
			fmt.Fprintln(stderr, WarningStyle.Render("warning: "+string(step.Field)+": "+warn.Error()))
		}
		if sess.IsLast() {
			break
		}
		sess.Next()
	}
	if missing := sess.Answers().Missing(); len(missing) > 0 {
		return &session.IncompleteError{Missing: missing}
	}

	e.log.Info("generating plan", "mode", "generate", "model", client.Model())
	if err := sess.Submit(ctx, client); err != nil {
		return err
	}

	doc := &export.Document{
		Plan:        sess.Plan(),
		Answers:     sess.Answers(),
		Model:       client.Model(),
		GeneratedAt: time.Now(),
	}

	out := cmd.OutOrStdout()
	if opts.json {
		data, err := export.NewJSONExporter(&export.Options{IncludeMetadata: true}).Export(doc)
		if err != nil {
			return err
		}
		if _, err := out.Write(append(data, '\n')); err != nil {
			return err
		}
	} else if err := renderPlan(out, doc, e.cfg.UI.WordWrap, ColorsEnabled()); err != nil {
		return err
	}

	if opts.outDir == "" {
		return nil
	}
	format := opts.format
	if format == "" {
		format = e.cfg.Export.Format
	}
	path, err := saveDocument(doc, format, opts.outDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(stderr, RenderStatus("ok")+" Saved to "+path)
	return nil
}
