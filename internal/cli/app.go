// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"io"

	"github.com/go-logr/logr"

	"github.com/jeranaias/companion/internal/config"
	"github.com/jeranaias/companion/internal/gemini"
	"github.com/jeranaias/companion/internal/logging"
	"github.com/jeranaias/companion/internal/orchestrator"
	"github.com/jeranaias/companion/internal/usage"
)

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// loadMode selects how much of the application a command needs.
type loadMode int

const (
	// loadConfig loads configuration and logging only.
	loadConfig loadMode = iota
	// loadModel also requires the API key and opens the usage ledger.
	loadModel
)

// app is the wired application shared by the commands.
type app struct {
	cfg        *config.Config
	configPath string
	log        logr.Logger

	client   *gemini.Client
	recorder usage.Recorder
	ledger   *usage.Ledger

	closers []io.Closer
}

// loadOptions controls loadApp.
type loadOptions struct {
	mode loadMode
	// quietLogs keeps logs off the terminal (full-screen UI). Logs still go
	// to a configured file.
	quietLogs bool
}

// loadApp loads .env and configuration, sets up logging and, for loadModel,
// builds the model client and usage recorder. The caller must Close the app.
func loadApp(opts *rootOptions, lo loadOptions) (*app, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, &ConfigError{Path: opts.envFile, Err: err}
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, &ConfigError{Path: opts.configPath, Err: err}
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if lo.quietLogs && cfg.Log.Output != "file" {
		cfg.Log.Output = "discard"
	}

	slogger, logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	a := &app{
		cfg:        cfg,
		configPath: opts.configPath,
		log:        logging.Logr(slogger),
		recorder:   usage.Nop{},
		closers:    []io.Closer{logCloser},
	}

	if lo.mode < loadModel {
		return a, nil
	}

	if err := cfg.RequireAPIKey(); err != nil {
		a.Close()
		return nil, err
	}

	a.client = gemini.NewClient(cfg.Model.APIKey).
		WithBaseURL(cfg.Model.BaseURL).
		WithModel(cfg.Model.ID).
		WithTimeout(cfg.Model.Timeout()).
		WithLogger(a.log)
	a.log.V(1).Info("model client ready", "model", a.client.Model(), "key", a.client.KeyFingerprint())

	if cfg.Usage.Enabled {
		ledger, err := usage.Open(cfg.Usage.Path)
		if err != nil {
			// The ledger is bookkeeping only; chat still works without it.
			a.log.Error(err, "usage ledger unavailable", "path", cfg.Usage.Path)
		} else {
			a.ledger = ledger
			a.recorder = ledger
			a.closers = append(a.closers, ledger)
		}
	}

	return a, nil
}

// newSession creates a conversation. indicator may be nil.
func (a *app) newSession(indicator func(string)) *orchestrator.Session {
	return orchestrator.New(a.client, orchestrator.Options{
		Model:            a.cfg.Model.ID,
		Recorder:         a.recorder,
		Logger:           a.log,
		Indicator:        indicator,
		ThinkingFrames:   a.cfg.UI.ThinkingFrames,
		ThinkingInterval: a.cfg.UI.ThinkingInterval(),
	})
}

// Close releases the ledger and the log file, last opened first.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
