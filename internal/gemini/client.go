// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

const (
	// DefaultBaseURL is the base URL of the Generative Language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-1.5-flash"

	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum accepted response body size.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "companion/0.1.0"
)

// sharedTransport pools connections across clients.
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("Gemini API key not configured")

	// ErrAuthFailed indicates the API key was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates quota or rate limits were hit.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the configured model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrEmptyResponse indicates a 200 response without any generated text.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrBlocked indicates the prompt or the answer was blocked by safety filters.
	ErrBlocked = errors.New("response blocked")
)

// APIError represents an error envelope returned by the API.
type APIError struct {
	Code    int
	Status  string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("Gemini API error %d (%s): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("Gemini API error %d: %s", e.Code, e.Message)
}

// Client talks to the generateContent endpoint for a single model.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        logr.Logger
}

// NewClient creates a client with the given API key and default settings.
//
// An empty key still yields a client, but Generate fails with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
		log: logr.Discard(),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// WithModel sets the model identifier, with or without the "models/" prefix.
func (c *Client) WithModel(model string) *Client {
	c.model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(log logr.Logger) *Client {
	c.log = log.WithName("gemini")
	return c
}

// Model returns the model identifier.
func (c *Client) Model() string {
	return c.model
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint returns a short SHA-256 fingerprint of the API key, suitable
// for logs. It never reveals any part of the key itself.
func (c *Client) KeyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4])
}

// endpoint returns the generateContent URL for the configured model.
func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

// Generate sends prompt as a single user turn and returns the generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (*Reply, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	reqBody := GenerateRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: prompt}},
		}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	c.log.V(1).Info("request", "model", c.model, "prompt_len", len(prompt), "key", c.KeyFingerprint())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	req.Header.Del("x-goog-api-key")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	c.log.V(1).Info("response", "model", c.model, "status", resp.StatusCode, "duration", duration)

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	text := genResp.Text()
	if text == "" {
		return nil, emptyReason(&genResp)
	}

	return &Reply{
		Text:         text,
		Model:        c.model,
		FinishReason: genResp.FinishReason(),
		Usage:        genResp.UsageMetadata,
		Duration:     duration,
	}, nil
}

// setHeaders sets the headers required by the API.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("x-goog-api-key", c.apiKey)
}

// readResponse reads the body through a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// emptyReason explains a 200 response that carried no text.
func emptyReason(resp *GenerateResponse) error {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("%w: prompt blocked (%s)", ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	switch reason := resp.FinishReason(); reason {
	case "", "STOP":
		return ErrEmptyResponse
	default:
		return fmt.Errorf("%w: finish reason %s", ErrBlocked, reason)
	}
}

// handleErrorResponse converts HTTP error responses to Go errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	apiErr := &APIError{Code: statusCode, Message: strings.TrimSpace(string(body))}

	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		apiErr.Status = envelope.Error.Status
		if envelope.Error.Code != 0 {
			apiErr.Code = envelope.Error.Code
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}

	c.log.Error(apiErr, "generateContent failed", "model", c.model, "status", statusCode)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAuthFailed, apiErr)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrModelNotFound, apiErr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, apiErr)
	default:
		return apiErr
	}
}
