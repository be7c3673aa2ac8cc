// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/companion/internal/config"
	"github.com/jeranaias/companion/internal/orchestrator"
	"github.com/jeranaias/companion/internal/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat page over HTTP",
		Long: `Serve the chat page and its JSON API.

Each browser gets its own conversation. Title and suggestions are reloaded
when the config file changes.`,
		Example: `  $ companion serve
  $ companion serve --addr 0.0.0.0:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts, loadOptions{mode: loadModel})
			if err != nil {
				return err
			}
			defer a.Close()

			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			configPath := opts.configPath
			if configPath == "" {
				if p, err := config.DefaultPath(); err == nil {
					configPath = p
				}
			}

			srv := server.New(server.Options{
				Config:     a.cfg,
				ConfigPath: configPath,
				NewSession: func() *orchestrator.Session {
					return a.newSession(nil)
				},
				Logger:  a.log,
				Version: opts.build.Version,
			})

			fmt.Fprintf(cmd.OutOrStdout(), "%s serving on %s\n",
				TitleStyle.Render(a.cfg.UI.Title),
				"http://"+a.cfg.Server.Addr)
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
