// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the client for Google's Generative Language API.
//
// The client implements a single-call completion contract: a new user
// message plus prior history in, generated text out. No retries, no
// streaming; a request either resolves with full text or fails.
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
	"log"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the Generative Language API.
const (
	// DefaultBaseURL is the base URL for the Generative Language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-1.5-flash"

	// DefaultTimeout is the default timeout for completion requests.
	// The upstream behavior this replaces had no timeout at all and could
	// leave a conversation waiting forever on a hung provider call.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// sharedHTTPClient is the pooled HTTP client used for all API requests.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates the API key is not set. The client never
	// attempts a network call without a credential present.
	ErrNotConfigured = errors.New("Gemini API key not configured")

	// ErrAuthFailed indicates the API key was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates the provider returned a quota error.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrEmptyResponse indicates the provider returned no candidates.
	ErrEmptyResponse = errors.New("empty response from model")
)

// APIError represents an error payload from the Generative Language API.
type APIError struct {
	Code    int
	Status  string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("Gemini error [%s] (HTTP %d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("Gemini error (HTTP %d): %s", e.Code, e.Message)
}

// CompletionError wraps any transport or provider failure behind a stable,
// user-safe message. The underlying cause is preserved for logs via Unwrap
// but is never shown verbatim in the UI.
type CompletionError struct {
	Cause error
}

// Error implements the error interface with a user-safe message.
func (e *CompletionError) Error() string {
	return "failed to get a response from the model, please try again"
}

// Unwrap returns the underlying cause for logging and errors.Is/As.
func (e *CompletionError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the Generative Language API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
}

// NewClient creates a new Gemini client with the given API key.
//
// If the API key is empty the client is still created, but Complete requests
// fail immediately with ErrNotConfigured. The key is held in process memory
// only; it is never written to disk by this package.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// SetModel sets the model to use for completion requests.
func (c *Client) SetModel(model string) {
	if model != "" {
		c.model = model
	}
}

// GetModel returns the current model.
func (c *Client) GetModel() string {
	return c.model
}

// SetAPIKey replaces the credential. Used when the key is entered
// interactively after startup.
func (c *Client) SetAPIKey(apiKey string) {
	c.apiKey = strings.TrimSpace(apiKey)
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// APIKeyMasked returns a masked identifier for the API key for display.
// SECURITY: Never exposes key fragments; uses a fingerprint instead.
func (c *Client) APIKeyMasked() string {
	if c.apiKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[REDACTED, length=%d, fingerprint=%s]", len(c.apiKey), c.keyFingerprint())
}

// keyFingerprint returns a short SHA-256 fingerprint of the API key.
func (c *Client) keyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// COMPLETION
// =============================================================================

// Complete sends one completion request: the new user message plus the prior
// history, oldest first, with roles restricted to "user" and "model".
//
// The call is atomic from the caller's perspective: it either returns the
// full generated text or an error. There are no retries and no streaming.
// All transport and provider failures are logged here and returned as a
// *CompletionError with a stable user-safe message.
func (c *Client) Complete(ctx context.Context, message string, history []Content) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	contents := make([]Content, 0, len(history)+1)
	contents = append(contents, history...)
	contents = append(contents, NewUserContent(message))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.generate(ctx, contents)
	if err != nil {
		// Log the cause at this boundary; callers surface the generic message.
		log.Printf("gemini: completion failed: %v", err)
		return "", &CompletionError{Cause: err}
	}
	return text, nil
}

// generate performs a single generateContent request.
func (c *Client) generate(ctx context.Context, contents []Content) (string, error) {
	bodyBytes, err := json.Marshal(generateRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	c.logRequest(req)
	start := time.Now()
	resp, err := sharedHTTPClient.Do(req)

	// SECURITY: Clear the credential header after the request to keep it out
	// of any later request dumps.
	req.Header.Del("x-goog-api-key")

	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	text := genResp.text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// setHeaders sets the required headers for API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "lumen/0.1.0")
	req.Header.Set("x-goog-api-key", c.apiKey)
}

// readResponse reads the response body with a size limit.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to Go errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		gErr := &APIError{
			Code:    statusCode,
			Status:  apiErr.Error.Status,
			Message: apiErr.Error.Message,
		}
		switch statusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAuthFailed, gErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrModelNotFound, gErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, gErr.Message)
		default:
			return gErr
		}
	}

	// Fallback for unparseable error responses
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusNotFound:
		return ErrModelNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &APIError{Code: statusCode, Message: string(body)}
	}
}

// =============================================================================
// LOGGING
// =============================================================================

// logRequest logs an API request without exposing sensitive data.
// Headers (credential) and body (conversation text) are never logged.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("gemini: request %s %s", req.Method, req.URL.Path)
}

// logResponse logs status code and duration only, no response body.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("gemini: response %d (%v)", resp.StatusCode, duration)
}

// =============================================================================
// MODEL LISTING
// =============================================================================

// ListModels retrieves the models available to this API key.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := sharedHTTPClient.Do(req)
	req.Header.Del("x-goog-api-key")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var listResp modelsResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}
	return listResp.Models, nil
}

// =============================================================================
// KEY VALIDATION
// =============================================================================

// ValidateAPIKey checks if the API key format appears valid.
// This does not verify the key with the provider, only the shape.
func ValidateAPIKey(apiKey string) bool {
	apiKey = strings.TrimSpace(apiKey)

	// Google API keys start with "AIza" and are 39 characters long.
	if !strings.HasPrefix(apiKey, "AIza") {
		return false
	}
	if len(apiKey) < 35 {
		return false
	}

	// Basic entropy check to reject obvious placeholders like "AIzaXXXX...".
	uniqueChars := make(map[rune]bool)
	for _, char := range apiKey[4:] {
		uniqueChars[char] = true
	}
	return len(uniqueChars) >= 10
}
