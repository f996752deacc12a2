// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/prepplan/internal/telemetry"
	"github.com/jeranaias/prepplan/internal/util"
)

// maxModelColumn caps the model column of the recent table.
const maxModelColumn = 24

// usageReport is the --json shape of the usage command.
type usageReport struct {
	Path   string            `json:"path"`
	Totals telemetry.Totals  `json:"totals"`
	Recent []telemetry.Entry `json:"recent"`
}

func newUsageCmd(flags *globalFlags) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show recent plan generations and token totals",
		Long: `Usage reads the local ledger of generation attempts. The ledger holds
timing, outcome and token counts only; answers and plans are never stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(flags)
			if err != nil {
				return err
			}
			defer e.log.Sync()

			out := cmd.OutOrStdout()
			path := e.cfg.UsageDBPath()
			if _, err := os.Stat(path); err != nil {
				if jsonOut {
					return outputJSON(out, usageReport{Path: path, Recent: []telemetry.Entry{}})
				}
				fmt.Fprintln(out, DimStyle.Render("No generations recorded yet."))
				return nil
			}

			ledger, err := telemetry.Open(path)
			if err != nil {
				return NewCommandError("usage", "open ledger", "cannot read "+path, err)
			}
			defer ledger.Close()

			ctx := cmd.Context()
			totals, err := ledger.Totals(ctx)
			if err != nil {
				return err
			}
			recent, err := ledger.Recent(ctx, limit)
			if err != nil {
				return err
			}
			report := usageReport{Path: path, Totals: totals, Recent: recent}
			if jsonOut {
				return outputJSON(out, report)
			}
			printUsage(out, report)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of recent generations to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	return cmd
}

func printUsage(w io.Writer, r usageReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Plan Generations"))
	fmt.Fprintln(w, RenderSeparator(60))

	fmt.Fprintf(w, "  %s%s\n", RenderLabel("Generations:"), ValueStyle.Render(formatNumber(r.Totals.Generations)))
	fmt.Fprintf(w, "  %s%s\n", RenderLabel("Failures:"), ValueStyle.Render(formatNumber(r.Totals.Failures)))
	fmt.Fprintf(w, "  %s%s\n", RenderLabel("Prompt tokens:"), ValueStyle.Render(formatNumber(r.Totals.PromptTokens)))
	fmt.Fprintf(w, "  %s%s\n", RenderLabel("Output tokens:"), ValueStyle.Render(formatNumber(r.Totals.OutputTokens)))
	fmt.Fprintf(w, "  %s%s\n", RenderLabel("Avg latency:"), ValueStyle.Render(formatDurationShort(r.Totals.AvgLatency)))

	if len(r.Recent) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, DimStyle.Render("No generations recorded yet."))
		return
	}

	modelWidth := 0
	for _, e := range r.Recent {
		modelWidth = max(modelWidth, min(util.StringWidth(e.Model), maxModelColumn))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, QuestionStyle.Render("Recent"))
	for _, e := range r.Recent {
		status := RenderStatus(string(e.Outcome))
		detail := util.Plural(e.DaysRemaining, "day", "days") + " left, " + formatNumber(e.PromptTokens+e.OutputTokens) + " tokens"
		if e.Stage != "" {
			detail = "failed at " + e.Stage
		}
		fmt.Fprintf(w, "  %s %s  %s  %-7s %s\n",
			status,
			DimStyle.Render(e.StartedAt.Local().Format("2006-01-02 15:04")),
			util.PadRight(util.TruncateWidth(e.Model, modelWidth), modelWidth),
			formatDurationShort(e.Latency),
			DimStyle.Render(detail),
		)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, DimStyle.Render("Ledger: "+r.Path))
}
