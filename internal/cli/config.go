// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for prepplan.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration (API key masked)
//   path                Show configuration file path
//   init                Write a default config file if none exists
//   get <key>           Print one value
//   set <key> <value>   Set a configuration value
//   reset               Reset the file to defaults
//
// Examples:
//   prepplan config                          Show current config
//   prepplan config show --json              Config in JSON format
//   prepplan config set gemini.model gemini-2.5-pro
//   prepplan config set ui.theme light
//   prepplan config set usage.enabled false
//   prepplan config get export.format
//
// Values set here are written to the file only; environment overrides
// (GEMINI_API_KEY, PREPPLAN_*) still win when the file is loaded.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/prepplan/internal/config"
)

const apiKeyKey = "gemini.api_key"

func newConfigCmd(flags *globalFlags) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return configShow(cmd.OutOrStdout(), flags, jsonOut)
		},
	}
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Display the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return configShow(cmd.OutOrStdout(), flags, jsonOut)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := resolveConfigPath(flags.configPath)
				if err != nil {
					return err
				}
				_, statErr := os.Stat(path)
				if jsonOut {
					return outputJSON(cmd.OutOrStdout(), map[string]interface{}{
						"path":   path,
						"exists": statErr == nil,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a default config file if none exists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := resolveConfigPath(flags.configPath)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintln(out, DimStyle.Render("Config already exists: "+path))
					return nil
				}
				if err := saveConfigFile(config.Default(), path); err != nil {
					return err
				}
				fmt.Fprintln(out, RenderStatus("ok")+" Wrote "+path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := loadConfigFile(flags)
				if err != nil {
					return err
				}
				cfg.ApplyEnvOverrides()
				v, err := cfg.Get(args[0])
				if err != nil {
					return NewValidationErrorWithExample("key", args[0], err.Error(), "prepplan config get gemini.model")
				}
				fmt.Fprintln(cmd.OutOrStdout(), displayValue(args[0], v))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value in the config file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return configSet(cmd.OutOrStdout(), flags, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Reset the config file to defaults",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := resolveConfigPath(flags.configPath)
				if err != nil {
					return err
				}
				if err := saveConfigFile(config.Default(), path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), RenderStatus("ok")+" Reset "+path)
				return nil
			},
		},
	)
	return cmd
}

// configShow prints the effective configuration, env overrides included.
func configShow(w io.Writer, flags *globalFlags, jsonOut bool) error {
	e, err := loadEnv(flags)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	if jsonOut {
		_, err := fmt.Fprintln(w, e.cfg.String())
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("prepplan Configuration"))
	fmt.Fprintln(w, RenderSeparator(41))

	section := ""
	for _, key := range config.Keys() {
		if i := strings.IndexByte(key, '.'); i > 0 && key[:i] != section {
			section = key[:i]
			fmt.Fprintln(w)
			fmt.Fprintln(w, QuestionStyle.Render("["+section+"]"))
		}
		v, err := e.cfg.Get(key)
		if err != nil {
			continue
		}
		name := key
		if section != "" {
			name = strings.TrimPrefix(key, section+".")
		}
		fmt.Fprintf(w, "  %s%s\n", RenderLabel(name+":", 22), ValueStyle.Render(displayValue(key, v)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, DimStyle.Render("File: "+e.cfgPath))
	return nil
}

// configSet writes one value into the file. The file is decoded without
// env overrides so a key from the environment is never persisted.
func configSet(w io.Writer, flags *globalFlags, key, value string) error {
	cfg, path, err := loadConfigFile(flags)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return NewValidationErrorWithExample("key", key, err.Error(), "prepplan config set ui.theme dark")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := saveConfigFile(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s = %s\n", RenderStatus("ok"), key, displayValue(key, mustGet(cfg, key)))
	return nil
}

// loadConfigFile decodes the config file over defaults, without env
// overrides. A missing file yields defaults.
func loadConfigFile(flags *globalFlags) (*config.Config, string, error) {
	path, err := resolveConfigPath(flags.configPath)
	if err != nil {
		return nil, "", err
	}
	cfg := config.Default()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, path, nil
		}
		return nil, "", err
	}
	if isJSONPath(path) {
		err = config.LoadJSON(cfg, path)
	} else {
		err = config.LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func saveConfigFile(cfg *config.Config, path string) error {
	if isJSONPath(path) {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}

func isJSONPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

func mustGet(cfg *config.Config, key string) interface{} {
	v, _ := cfg.Get(key)
	return v
}

// displayValue formats v for output, masking the API key.
func displayValue(key string, v interface{}) string {
	s := fmt.Sprint(v)
	if strings.EqualFold(key, apiKeyKey) {
		if s == "" {
			return "(not set)"
		}
		return maskSecret(s)
	}
	if s == "" {
		return "(default)"
	}
	return s
}

// maskSecret keeps the last four characters of a credential.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}
