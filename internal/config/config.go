// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/companion/internal/util"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvAPIKey   = "GEMINI_API_KEY"
	EnvModel    = "COMPANION_MODEL"
	EnvAddr     = "COMPANION_ADDR"
	EnvLogLevel = "COMPANION_LOG_LEVEL"
)

// SuggestionCount is the number of suggested prompts shown in every front-end.
const SuggestionCount = 5

// ErrMissingAPIKey is returned by RequireAPIKey when no credential is configured.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " not found in environment or .env file!")

// DefaultSuggestions are the suggested prompts used when none are configured.
var DefaultSuggestions = []string{
	"What is AI?",
	"Tell me a fun fact!",
	"How can I improve my coding skills?",
	"Explain the concept of cloud computing.",
	"Give me a motivational quote!",
}

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete companion configuration.
type Config struct {
	Model  ModelConfig  `toml:"model"`
	UI     UIConfig     `toml:"ui"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Usage  UsageConfig  `toml:"usage"`
}

// ModelConfig configures the hosted model.
type ModelConfig struct {
	ID      string `toml:"id"`
	BaseURL string `toml:"base_url"`
	// APIKey is normally left empty; GEMINI_API_KEY takes precedence.
	APIKey string `toml:"api_key"`
	// TimeoutSecs bounds a single request.
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig configures the chat front-ends.
type UIConfig struct {
	Title string `toml:"title"`
	// Theme is "dark", "light" or "auto".
	Theme       string   `toml:"theme"`
	Suggestions []string `toml:"suggestions"`
	// ThinkingFrames and ThinkingIntervalMs shape the "🤖 Thinking..." indicator.
	ThinkingFrames     int `toml:"thinking_frames"`
	ThinkingIntervalMs int `toml:"thinking_interval_ms"`
}

// ServerConfig configures the web front-end.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit              float64 `toml:"rate_limit"`
	RateBurst              int     `toml:"rate_burst"`
	SessionIdleTimeoutSecs int     `toml:"session_idle_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level"`
	// Format is "text" or "json".
	Format string `toml:"format"`
	// Output is "stderr", "stdout", "file" or "discard".
	Output   string `toml:"output"`
	FilePath string `toml:"file_path"`
}

// UsageConfig configures the usage ledger.
type UsageConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Default returns a Config with default values.
func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = ".companion"
	}
	return &Config{
		Model: ModelConfig{
			ID:          "gemini-1.5-flash",
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			TimeoutSecs: 60,
		},
		UI: UIConfig{
			Title:              "🤖 Your Personal Chat Companion",
			Theme:              "auto",
			Suggestions:        append([]string(nil), DefaultSuggestions...),
			ThinkingFrames:     3,
			ThinkingIntervalMs: 500,
		},
		Server: ServerConfig{
			Addr:                   "127.0.0.1:8501",
			RateLimit:              2,
			RateBurst:              5,
			SessionIdleTimeoutSecs: 1800,
		},
		Log: LogConfig{
			Level:    "info",
			Format:   "text",
			Output:   "stderr",
			FilePath: filepath.Join(dir, "companion.log"),
		},
		Usage: UsageConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "usage.db"),
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the companion configuration directory (~/.companion).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".companion"), nil
}

// DefaultPath returns the path of the default config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// LoadDotEnv loads a .env file into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads the TOML file at path, applies environment overrides, fills
// defaults and validates. An empty path means DefaultPath. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := decodeFile(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Save writes cfg as TOML to path with 0600 permissions.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# companion configuration file\n")
	buf.WriteString("# GEMINI_API_KEY in the environment or .env overrides model.api_key\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - GEMINI_API_KEY: overrides model.api_key
//   - COMPANION_MODEL: overrides model.id
//   - COMPANION_ADDR: overrides server.addr
//   - COMPANION_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Model.APIKey = key
	}
	if model := os.Getenv(EnvModel); model != "" {
		c.Model.ID = model
	}
	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}

// RequireAPIKey returns ErrMissingAPIKey when no credential is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.Model.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Model.ID) == "" {
		errs = append(errs, ValidationError{Field: "model.id", Message: "must not be empty"})
	}
	if u, err := url.Parse(c.Model.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "model.base_url",
			Message: fmt.Sprintf("invalid URL '%s'", c.Model.BaseURL),
		})
	}
	if c.Model.TimeoutSecs < 1 || c.Model.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "model.timeout_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.Model.TimeoutSecs),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if len(c.UI.Suggestions) != SuggestionCount {
		errs = append(errs, ValidationError{
			Field:   "ui.suggestions",
			Message: fmt.Sprintf("must have exactly %d entries, got %d", SuggestionCount, len(c.UI.Suggestions)),
		})
	}
	for i, s := range c.UI.Suggestions {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("ui.suggestions[%d]", i),
				Message: "must not be blank",
			})
		}
	}
	if c.UI.ThinkingFrames < 0 || c.UI.ThinkingFrames > 10 {
		errs = append(errs, ValidationError{
			Field:   "ui.thinking_frames",
			Message: fmt.Sprintf("must be 0-10, got %d", c.UI.ThinkingFrames),
		})
	}
	if c.UI.ThinkingIntervalMs < 0 || c.UI.ThinkingIntervalMs > 5000 {
		errs = append(errs, ValidationError{
			Field:   "ui.thinking_interval_ms",
			Message: fmt.Sprintf("must be 0-5000, got %d", c.UI.ThinkingIntervalMs),
		})
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, ValidationError{
			Field:   "server.addr",
			Message: fmt.Sprintf("invalid address '%s': %v", c.Server.Addr, err),
		})
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "server.rate_limit", Message: "must be non-negative"})
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, ValidationError{Field: "server.rate_burst", Message: "must be at least 1 when rate limiting is on"})
	}
	if c.Server.SessionIdleTimeoutSecs < 60 {
		errs = append(errs, ValidationError{
			Field:   "server.session_idle_timeout_secs",
			Message: fmt.Sprintf("must be at least 60, got %d", c.Server.SessionIdleTimeoutSecs),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: text, json", c.Log.Format),
		})
	}
	validOutputs := map[string]bool{"stderr": true, "stdout": true, "file": true, "discard": true}
	if !validOutputs[strings.ToLower(c.Log.Output)] {
		errs = append(errs, ValidationError{
			Field:   "log.output",
			Message: fmt.Sprintf("invalid output '%s', must be one of: stderr, stdout, file, discard", c.Log.Output),
		})
	}
	if strings.EqualFold(c.Log.Output, "file") && c.Log.FilePath == "" {
		errs = append(errs, ValidationError{Field: "log.file_path", Message: "required when output is file"})
	}

	if c.Usage.Enabled && c.Usage.Path == "" {
		errs = append(errs, ValidationError{Field: "usage.path", Message: "required when usage is enabled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Model.ID == "" {
		c.Model.ID = defaults.Model.ID
	}
	c.Model.ID = strings.TrimPrefix(c.Model.ID, "models/")
	if c.Model.BaseURL == "" {
		c.Model.BaseURL = defaults.Model.BaseURL
	}
	if c.Model.TimeoutSecs == 0 {
		c.Model.TimeoutSecs = defaults.Model.TimeoutSecs
	}

	if c.UI.Title == "" {
		c.UI.Title = defaults.UI.Title
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if len(c.UI.Suggestions) == 0 {
		c.UI.Suggestions = defaults.UI.Suggestions
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.SessionIdleTimeoutSecs == 0 {
		c.Server.SessionIdleTimeoutSecs = defaults.Server.SessionIdleTimeoutSecs
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.Log.Output == "" {
		c.Log.Output = defaults.Log.Output
	}
	if c.Log.FilePath == "" {
		c.Log.FilePath = defaults.Log.FilePath
	}

	if c.Usage.Path == "" {
		c.Usage.Path = defaults.Usage.Path
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Timeout returns the model request timeout.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSecs) * time.Second
}

// ThinkingInterval returns the delay between indicator frames.
func (u UIConfig) ThinkingInterval() time.Duration {
	return time.Duration(u.ThinkingIntervalMs) * time.Millisecond
}

// SessionIdleTimeout returns how long an unused web session is kept.
func (s ServerConfig) SessionIdleTimeout() time.Duration {
	return time.Duration(s.SessionIdleTimeoutSecs) * time.Second
}

// Get retrieves a configuration value by its TOML key in dot notation
// (e.g., "server.addr").
func (c *Config) Get(key string) (interface{}, error) {
	if key == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTOMLName(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field.Interface(), nil
		}
		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return nil, fmt.Errorf("invalid key: %s", key)
}

func fieldByTOMLName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.UI.Suggestions = append([]string(nil), c.UI.Suggestions...)
	return &clone
}

// Redacted returns a copy safe to print or log: the API key is masked.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	if safe.Model.APIKey != "" {
		safe.Model.APIKey = "[REDACTED]"
	}
	return safe
}

// String returns the redacted config as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.Redacted()); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
