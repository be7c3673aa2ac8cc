// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/companion/internal/model"
	"github.com/jeranaias/companion/internal/ui/render"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

func newAskCommand(opts *rootOptions) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "ask PROMPT...",
		Short: "Send one prompt and print the reply",
		Example: `  $ companion ask "What is AI?"
  $ companion ask --raw Give me a motivational quote! > quote.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if strings.TrimSpace(prompt) == "" {
				return NewUsageError("prompt is empty")
			}

			a, err := loadApp(opts, loadOptions{mode: loadModel})
			if err != nil {
				return err
			}
			defer a.Close()

			text := a.newSession(nil).Request(cmd.Context(), prompt)
			return printOneShot(cmd, text, "", useMarkdown(raw), a.cfg.UI.Theme)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the reply as plain text")
	return cmd
}

// =============================================================================
// FACT COMMAND
// =============================================================================

func newFactCommand(opts *rootOptions) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "fact",
		Short: "Print a fun, interesting fact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts, loadOptions{mode: loadModel})
			if err != nil {
				return err
			}
			defer a.Close()

			text := a.newSession(nil).RandomFact(cmd.Context())
			return printOneShot(cmd, text, "🎉 ", useMarkdown(raw), a.cfg.UI.Theme)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the fact as plain text")
	return cmd
}

// =============================================================================
// OUTPUT
// =============================================================================

func useMarkdown(raw bool) bool {
	return !raw && IsStdoutTTY()
}

// printOneShot prints a reply. A failed reply goes to stderr and yields
// ErrRequestFailed.
func printOneShot(cmd *cobra.Command, text, prefix string, markdown bool, theme string) error {
	if strings.HasPrefix(text, model.ErrorPrefix) {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(text))
		return ErrRequestFailed
	}
	writeReply(cmd.OutOrStdout(), prefix+text, markdown, theme, GetTerminalWidth())
	return nil
}

func writeReply(w io.Writer, text string, markdown bool, theme string, width int) {
	if markdown {
		text = render.NewMarkdown(theme).Render(text, width)
	}
	fmt.Fprintln(w, text)
}
