// companion - A personal chat companion backed by Google Gemini.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/companion/internal/cli"
	"github.com/jeranaias/companion/internal/config"
	"github.com/jeranaias/companion/internal/model"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, cli.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	})
	stop()

	if err == nil {
		return
	}
	switch {
	case errors.Is(err, config.ErrMissingAPIKey):
		fmt.Fprintln(os.Stderr, model.ErrorPrefix+err.Error())
	case cli.IsSilent(err):
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}
