// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/prepplan/internal/config"
	"github.com/jeranaias/prepplan/internal/gemini"
	"github.com/jeranaias/prepplan/internal/logging"
	"github.com/jeranaias/prepplan/internal/telemetry"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	theme      string
}

// env is what a command needs once flags are parsed.
type env struct {
	cfg     *config.Config
	cfgPath string
	log     *logging.Logger
}

// newClient builds the generation client; tests swap it for a fake backend.
var newClient = func(ctx context.Context, cfg gemini.Config, log *logging.Logger) (*gemini.Client, error) {
	return gemini.New(ctx, cfg, log)
}

// reportedError marks an error a command already printed (JSON mode).
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// =============================================================================
// ENTRY POINT
// =============================================================================

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			DisplayError(root.ErrOrStderr(), err, false)
		}
		return GetExitCode(err)
	}
	return ExitSuccess
}

// NewRootCmd builds the command tree. Without a subcommand it starts the
// full-screen planner.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "prepplan",
		Short: "Personalised exam study plans from six questions",
		Long: `prepplan asks six questions about an upcoming exam (the exam, chapters
left, chapters done, exam date, study style and target score) and turns the
answers into a phased study plan generated by Gemini.

Run without arguments for the full-screen planner, or use 'ask' for a
line-by-line prompt and 'generate' for scripts.

The API key is read from GEMINI_API_KEY (or PREPPLAN_API_KEY, API_KEY) or
from gemini.api_key in the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file path (TOML, or JSON by extension)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	pf.StringVar(&flags.theme, "theme", "", "Color theme (auto, dark, light)")

	cmd.AddCommand(
		newAskCmd(flags),
		newGenerateCmd(flags),
		newConfigCmd(flags),
		newUsageCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "prepplan %s (commit %s, built %s, %s/%s)\n",
				Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
		},
	}
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

// resolveConfigPath picks the file to load and watch: the explicit path, an
// existing config.toml or config.json, or config.toml when neither exists.
func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	if jsonPath, err := config.ConfigPathJSON(); err == nil {
		if _, err := os.Stat(jsonPath); err == nil {
			return jsonPath, nil
		}
	}
	return tomlPath, nil
}

// loadEnv loads the config, applies flag overrides and opens the log.
func loadEnv(flags *globalFlags) (*env, error) {
	path, err := resolveConfigPath(flags.configPath)
	if err != nil {
		return nil, NewCommandError("config", "locate", "no config directory", err)
	}

	var cfg *config.Config
	if _, statErr := os.Stat(path); statErr == nil {
		cfg, err = config.LoadFromPath(path)
	} else if flags.configPath != "" {
		return nil, NewCommandError("config", "load", "file not found", statErr)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.theme != "" {
		cfg.UI.Theme = flags.theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.LogPath(),
	})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, cfgPath: path, log: log}, nil
}

// generator builds the Gemini client and hooks the usage ledger to it when
// enabled. The returned func releases the ledger.
func (e *env) generator(ctx context.Context, sessionID string) (*gemini.Client, func(), error) {
	if err := e.cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}
	client, err := newClient(ctx, gemini.Config{
		APIKey:            e.cfg.Gemini.APIKey,
		Model:             e.cfg.Gemini.Model,
		Temperature:       e.cfg.Gemini.Temperature,
		RequestsPerMinute: e.cfg.Gemini.RequestsPerMinute,
	}, e.log)
	if err != nil {
		return nil, nil, err
	}

	release := func() {}
	if !e.cfg.Usage.Enabled {
		return client, release, nil
	}
	ledger, err := telemetry.Open(e.cfg.UsageDBPath())
	if err != nil {
		e.log.Warn("usage ledger unavailable", "error", err)
		return client, release, nil
	}
	client.OnAttempt(func(a gemini.Attempt) {
		if err := ledger.Record(context.Background(), telemetry.FromAttempt(sessionID, a)); err != nil {
			e.log.Warn("usage not recorded", "error", err)
		}
	})
	return client, func() { _ = ledger.Close() }, nil
}
