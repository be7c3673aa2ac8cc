// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the companion command line.
//
// # Commands
//
//   - (none), tui: full-screen terminal chat
//   - chat: line-based chat with input history
//   - ask: one prompt, one reply
//   - fact: one fun fact
//   - serve: web front-end
//   - usage: request totals from the usage ledger
//   - config: path, show, init, get
//
// Every command that talks to the model needs GEMINI_API_KEY (from the
// environment, a .env file or the config file). Without it the command fails
// with config.ErrMissingAPIKey before anything is shown.
//
// # Usage
//
//	if err := cli.Execute(ctx, cli.BuildInfo{Version: Version}); err != nil {
//	    os.Exit(cli.ExitCode(err))
//	}
package cli
