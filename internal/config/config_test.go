// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears the environment variables Load reads and points HOME at a
// temp directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{EnvAPIKey, EnvModel, EnvAddr, EnvLogLevel} {
		t.Setenv(key, "")
	}
	return home
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	isolate(t)
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini-1.5-flash", cfg.Model.ID)
	assert.Equal(t, DefaultSuggestions, cfg.UI.Suggestions)
	assert.Len(t, cfg.UI.Suggestions, SuggestionCount)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
[model]
id = "models/gemini-1.5-pro"
timeout_secs = 30

[ui]
title = "Helper"
suggestions = ["a", "b", "c", "d", "e"]

[server]
addr = "0.0.0.0:9000"

[usage]
enabled = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model.ID)
	assert.Equal(t, 30*time.Second, cfg.Model.Timeout())
	assert.Equal(t, "Helper", cfg.UI.Title)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, cfg.UI.Suggestions)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.False(t, cfg.Usage.Enabled)
	// Untouched sections keep defaults.
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_UnknownKey(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "[model]\nmodel_name = \"x\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.model_name")
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
[ui]
theme = "neon"
suggestions = ["only one"]

[log]
level = "loud"
`)

	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, len(verrs))
	for i, v := range verrs {
		fields[i] = v.Field
	}
	assert.ElementsMatch(t, []string{"ui.theme", "ui.suggestions", "log.level"}, fields)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvModel, "gemini-2.0-flash")
	t.Setenv(EnvAddr, "127.0.0.1:7000")
	t.Setenv(EnvLogLevel, "debug")

	path := writeConfig(t, t.TempDir(), "[model]\napi_key = \"file-key\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Model.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model.ID)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestRequireAPIKey(t *testing.T) {
	isolate(t)
	cfg := Default()
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)

	cfg.Model.APIKey = "   "
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)

	cfg.Model.APIKey = "k"
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	// Missing file is fine.
	require.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("COMPANION_TEST_DOTENV=from-file\n"), 0600))
	t.Setenv("COMPANION_TEST_DOTENV", "")
	os.Unsetenv("COMPANION_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(envPath))
	assert.Equal(t, "from-file", os.Getenv("COMPANION_TEST_DOTENV"))
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.UI.Title = "Saved"
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Saved", loaded.UI.Title)
}

func TestGet(t *testing.T) {
	isolate(t)
	cfg := Default()

	v, err := cfg.Get("server.addr")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8501", v)

	v, err = cfg.Get("model.timeout_secs")
	require.NoError(t, err)
	assert.Equal(t, 60, v)

	_, err = cfg.Get("model.nope")
	assert.Error(t, err)
	_, err = cfg.Get("model.id.deeper")
	assert.Error(t, err)
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestString_RedactsKey(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Model.APIKey = "AIzaSecretValue"

	out := cfg.String()
	assert.NotContains(t, out, "AIzaSecretValue")
	assert.Contains(t, out, "[REDACTED]")
	assert.Equal(t, "AIzaSecretValue", cfg.Model.APIKey, "original must not be modified")
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, "[ui]\ntitle = \"first\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { changes <- c }, nil)
	}()

	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntitle = \"second\"\n"), 0600))

	select {
	case cfg := <-changes:
		assert.Equal(t, "second", cfg.UI.Title)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatch_ReportsInvalidConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 4)
	go Watch(ctx, path, func(*Config) {}, func(err error) { errs <- err })

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "ui.theme")
	case <-time.After(5 * time.Second):
		t.Fatal("no error observed")
	}
}
