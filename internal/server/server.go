// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"

	"github.com/jeranaias/companion/internal/config"
	"github.com/jeranaias/companion/internal/orchestrator"
	"github.com/jeranaias/companion/internal/session"
	"github.com/jeranaias/companion/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// SessionCookie names the cookie that carries the conversation id.
	SessionCookie = "companion_session"

	// SessionHeader lets API clients pass the conversation id without cookies.
	SessionHeader = "X-Session-ID"

	// MaxRequestBodySize caps form and JSON bodies (64KB).
	MaxRequestBodySize = 64 * 1024

	// MaxMessageLength is the longest utterance accepted, in bytes.
	MaxMessageLength = 16 * 1024

	// SweepInterval is how often idle conversations are expired.
	SweepInterval = time.Minute

	shutdownTimeout = 10 * time.Second
)

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	// Config supplies the listen address, rate limits, session timeout and
	// the initial page title and suggestions.
	Config *config.Config

	// ConfigPath, when set, is watched for changes to the title and suggestions.
	ConfigPath string

	// NewSession builds the conversation for each new visitor.
	NewSession func() *orchestrator.Session

	Logger  logr.Logger
	Version string
}

// pageSettings is the part of the config that can change while running.
type pageSettings struct {
	Title       string
	Suggestions []string
}

// Server is the web front-end.
type Server struct {
	addr       string
	configPath string
	version    string
	log        logr.Logger

	registry *session.Registry
	limiter  *RateLimiter
	page     atomic.Pointer[pageSettings]

	router    *http.ServeMux
	startTime time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New creates a server. It does not start listening.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	s := &Server{
		addr:       cfg.Server.Addr,
		configPath: opts.ConfigPath,
		version:    opts.Version,
		log:        log.WithName("server"),
		registry:   session.NewRegistry(opts.NewSession, cfg.Server.SessionIdleTimeout()),
		router:     http.NewServeMux(),
		startTime:  time.Now(),
	}
	if cfg.Server.RateLimit > 0 {
		s.limiter = NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, 10*time.Minute)
	}
	s.SetPage(cfg.UI.Title, cfg.UI.Suggestions)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Page and form posts
	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("POST /submit", s.handleSubmit)
	s.router.HandleFunc("POST /suggest", s.handleSuggest)
	s.router.HandleFunc("POST /clear", s.handleClear)
	s.router.HandleFunc("POST /summary", s.handleSummary)
	s.router.HandleFunc("POST /fact", s.handleFact)

	// JSON API
	s.router.HandleFunc("GET /api/transcript", s.handleAPITranscript)
	s.router.HandleFunc("DELETE /api/transcript", s.handleAPIReset)
	s.router.HandleFunc("POST /api/messages", s.handleAPIMessage)
	s.router.HandleFunc("POST /api/summary", s.handleAPISummary)
	s.router.HandleFunc("POST /api/fact", s.handleAPIFact)

	s.router.HandleFunc("GET /health", s.handleHealth)
}

// SetPage replaces the page title and suggestions.
func (s *Server) SetPage(title string, suggestions []string) {
	s.page.Store(&pageSettings{
		Title:       title,
		Suggestions: append([]string(nil), suggestions...),
	})
}

func (s *Server) currentPage() *pageSettings {
	return s.page.Load()
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		RecoveryMiddleware(s.log),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(s.log),
	}
	if s.limiter != nil {
		middlewares = append(middlewares, RateLimitMiddleware(s.limiter, s.log))
	}
	middlewares = append(middlewares, BodyLimitMiddleware(MaxRequestBodySize))
	return Chain(middlewares...)(s.router)
}

// Addr returns the address the server is listening on, or the configured
// address before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Sessions returns the number of live conversations.
func (s *Server) Sessions() int {
	return s.registry.Len()
}

// Start listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	s.server = srv
	s.listener = ln
	s.mu.Unlock()

	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.background(bgCtx)

	s.log.Info("server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// background runs the session sweeper, the rate limiter cleanup and the
// config watcher.
func (s *Server) background(ctx context.Context) {
	go s.registry.Run(ctx, SweepInterval)

	if s.limiter != nil {
		go func() {
			ticker := time.NewTicker(SweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					s.limiter.Cleanup()
				}
			}
		}()
	}

	if s.configPath != "" {
		go func() {
			err := config.Watch(ctx, s.configPath, s.reload, func(err error) {
				s.log.Error(err, "config reload failed", "path", s.configPath)
			})
			if err != nil {
				s.log.Error(err, "config watcher stopped", "path", s.configPath)
			}
		}()
	}
}

func (s *Server) reload(cfg *config.Config) {
	s.SetPage(cfg.UI.Title, cfg.UI.Suggestions)
	s.log.Info("config reloaded", "title", cfg.UI.Title, "suggestions", len(cfg.UI.Suggestions))
}

// ============================================================================
// SESSIONS
// ============================================================================

// entry resolves the caller's conversation, creating one (and setting the
// cookie and header) when the id is missing or unknown.
func (s *Server) entry(w http.ResponseWriter, r *http.Request) *session.Entry {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
	}

	e, created := s.registry.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    e.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	w.Header().Set(SessionHeader, e.ID)
	return e
}

// modelContext detaches model calls from the client connection so that a
// reply is still recorded when the browser navigates away mid-request.
func modelContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// ============================================================================
// HEALTH
// ============================================================================

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Sessions int    `json:"sessions"`
	Uptime   string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  s.version,
		Sessions: s.registry.Len(),
		Uptime:   util.FormatDuration(time.Since(s.startTime)),
	})
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes an API error.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, errType string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{Message: message, Type: errType},
	})
}
