// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary at build time.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	logLevel   string
	envFile    string
	build      BuildInfo
}

// NewRootCommand builds the command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &rootOptions{build: info}

	root := &cobra.Command{
		Use:     "companion",
		Short:   "Chat with Gemini from your terminal or browser",
		Version: info.Version,
		Long: `companion is a personal chat companion backed by Google Gemini.

Run it without arguments for the full-screen terminal chat, or use "serve" for
the web page. The API key is read from GEMINI_API_KEY (environment or .env).`,
		Example: `  # Full-screen chat
  $ companion

  # Line-based chat with history
  $ companion chat

  # One question
  $ companion ask "Explain the concept of cloud computing."

  # Web front-end on http://127.0.0.1:8501
  $ companion serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(formatVersion(info))

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.companion/config.toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load")

	root.AddCommand(
		newTUICommand(opts),
		newChatCommand(opts),
		newAskCommand(opts),
		newFactCommand(opts),
		newServeCommand(opts),
		newUsageCommand(opts),
		newConfigCommand(opts),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Message: err.Error()}
	})

	return root
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context, info BuildInfo) error {
	return NewRootCommand(info).ExecuteContext(ctx)
}

// formatVersion formats the version output
func formatVersion(info BuildInfo) string {
	s := fmt.Sprintf("companion version %s", info.Version)
	if info.GitCommit != "" && info.GitCommit != "unknown" {
		s += fmt.Sprintf(" (%s", info.GitCommit)
		if info.BuildDate != "" && info.BuildDate != "unknown" {
			s += ", " + info.BuildDate
		}
		s += ")"
	}
	return s + "\n"
}
