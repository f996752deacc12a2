// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jeranaias/prepplan/internal/config"
	"github.com/jeranaias/prepplan/internal/session"
	"github.com/jeranaias/prepplan/internal/ui/app"
	"github.com/jeranaias/prepplan/internal/ui/styles"
)

// runTUI starts the full-screen planner and keeps it in step with the config
// file until the program exits.
func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	if err := RequiresTTY("run the planner"); err != nil {
		return err
	}
	e, err := loadEnv(flags)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sess := session.New(e.log)
	client, release, err := e.generator(ctx, sess.ID())
	if err != nil {
		return err
	}
	defer release()

	e.log.Info("prepplan started",
		"version", Version,
		"mode", "tui",
		"model", client.Model(),
		"config", e.cfgPath,
	)

	model := app.New(ctx, sess, app.Options{
		Generator:    client,
		Log:          e.log,
		Theme:        styles.NewTheme(e.cfg.UI.Theme),
		WordWrap:     e.cfg.UI.WordWrap,
		ExportDir:    e.cfg.Export.Dir,
		ExportFormat: e.cfg.Export.Format,
		LogsPath:     e.cfg.LogPath(),
	})
	p := app.NewProgram(ctx, model)

	if err := config.EnsureConfigDir(); err != nil && flags.configPath == "" {
		e.log.Warn("config watch disabled", "error", err)
	} else {
		go func() {
			err := config.Watch(ctx, e.cfgPath, config.DefaultDebounce, func(cfg *config.Config, err error) {
				p.Send(app.ConfigReloadedMsg{Config: cfg, Err: err})
			})
			if err != nil {
				e.log.Warn("config watch stopped", "error", err)
			}
		}()
	}

	_, err = p.Run()
	e.log.Info("prepplan stopped", "session_id", sess.ID(), "state", sess.State().String())
	return err
}
