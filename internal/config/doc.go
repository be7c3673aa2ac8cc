// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for companion.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GEMINI_API_KEY, COMPANION_*)
//   - A .env file in the working directory (see LoadDotEnv)
//   - ~/.companion/config.toml, or the file given with --config
//   - Built-in defaults
//
// # Usage
//
//	_ = config.LoadDotEnv("")
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.RequireAPIKey(); err != nil {
//	    log.Fatal(err)
//	}
//
// Watch reloads the file when it changes; the web front-end uses it to pick up
// new suggestions and titles without a restart.
package config
