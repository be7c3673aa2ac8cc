// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/companion/internal/usage"
	"github.com/jeranaias/companion/internal/util"
)

func newUsageCommand(opts *rootOptions) *cobra.Command {
	var since time.Duration
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show model request totals",
		Long: `Show how many model requests each feature made, how many failed, the
tokens they used and their average latency. Message contents are never
recorded.`,
		Example: `  $ companion usage
  $ companion usage --since 24h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts, loadOptions{mode: loadConfig})
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if !a.cfg.Usage.Enabled {
				fmt.Fprintln(out, DimStyle.Render("Usage ledger is disabled ([usage] enabled = false)."))
				return nil
			}

			ledger, err := usage.Open(a.cfg.Usage.Path)
			if err != nil {
				return err
			}
			defer ledger.Close()

			totals, err := ledger.Totals(cmd.Context())
			if err != nil {
				return err
			}
			printTotals(out, totals)

			if since > 0 {
				n, err := ledger.Since(cmd.Context(), time.Now().Add(-since))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nRequests in the last %s: %d\n", util.FormatDuration(since), n)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&since, "since", 0, "also count requests made within this window (e.g. 24h)")
	return cmd
}

var usageColumns = []struct {
	title string
	width int
}{
	{"OPERATION", 11},
	{"REQUESTS", 10},
	{"FAILED", 8},
	{"PROMPT TOK", 12},
	{"REPLY TOK", 11},
	{"AVG TIME", 0},
}

// printTotals prints one row per operation plus a total row.
func printTotals(w io.Writer, totals []usage.Total) {
	fmt.Fprintln(w, TitleStyle.Render("Model usage"))
	if len(totals) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No requests recorded yet."))
		return
	}

	header := ""
	for _, c := range usageColumns {
		header += util.PadRight(c.title, c.width)
	}
	fmt.Fprintln(w, SectionStyle.Render(header))

	var sum usage.Total
	var weighted time.Duration
	for _, t := range totals {
		writeTotalRow(w, string(t.Op), t)
		sum.Requests += t.Requests
		sum.Failures += t.Failures
		sum.PromptTokens += t.PromptTokens
		sum.ResponseTokens += t.ResponseTokens
		weighted += t.AvgDuration * time.Duration(t.Requests)
	}
	if sum.Requests > 0 {
		sum.AvgDuration = weighted / time.Duration(sum.Requests)
	}
	writeTotalRow(w, "total", sum)
}

func writeTotalRow(w io.Writer, label string, t usage.Total) {
	cells := []string{
		label,
		strconv.Itoa(t.Requests),
		strconv.Itoa(t.Failures),
		strconv.FormatInt(t.PromptTokens, 10),
		strconv.FormatInt(t.ResponseTokens, 10),
		util.FormatDuration(t.AvgDuration),
	}
	row := ""
	for i, c := range usageColumns {
		row += util.PadRight(cells[i], c.width)
	}
	fmt.Fprintln(w, row)
}
