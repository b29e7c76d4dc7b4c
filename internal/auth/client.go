// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// CONSTANTS AND ERRORS
// =============================================================================

const (
	// DefaultTimeout is the default timeout for auth requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 1 * 1024 * 1024 // 1MB limit

	// refreshSkew refreshes the session this long before actual expiry so
	// in-flight requests never race token expiration.
	refreshSkew = 60 * time.Second
)

var (
	// ErrNotConfigured indicates the auth client has no project URL or key.
	ErrNotConfigured = errors.New("auth provider not configured")

	// ErrInvalidCredentials indicates a rejected email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotSignedIn indicates an operation that requires a session was
	// called without one.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrSessionExpired indicates the refresh token was rejected.
	ErrSessionExpired = errors.New("session expired, please sign in again")
)

// sharedHTTPClient is the pooled client for all auth requests.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// SECURITY: TLS verification required for production
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: false,
		},
	},
	Timeout: DefaultTimeout,
}

// AuthError represents a structured error from the auth provider.
type AuthError struct {
	Code    int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error %d: %s", e.Code, e.Message)
}

// =============================================================================
// TYPES
// =============================================================================

// User represents an authenticated user.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session represents an authenticated session.
// SECURITY: Tokens are held in memory only and never written to disk.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	User         *User  `json:"user"`

	// expiresAt is computed at receipt time from ExpiresIn.
	expiresAt time.Time
}

// Expired reports whether the session is expired or about to expire.
func (s *Session) Expired() bool {
	if s == nil {
		return true
	}
	return time.Now().After(s.expiresAt.Add(-refreshSkew))
}

// AuthState describes a change in authentication state.
type AuthState int

const (
	// StateSignedOut means no session is active.
	StateSignedOut AuthState = iota
	// StateSignedIn means a session is active.
	StateSignedIn
	// StateRefreshed means the session tokens were replaced.
	StateRefreshed
)

// StateFunc receives auth state changes. The session is nil on sign-out.
type StateFunc func(state AuthState, session *Session)

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to a hosted GoTrue-compatible auth service.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client

	mu        sync.RWMutex
	session   *Session
	listeners []StateFunc
}

// NewClient creates an auth client for the given project.
func NewClient(projectURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(projectURL, "/"),
		anonKey: anonKey,
		http:    sharedHTTPClient,
	}
}

// WithHTTPClient overrides the HTTP client (mainly for testing).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// IsConfigured returns true if the client has a project URL and key.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// OnAuthStateChange registers a callback for auth state transitions.
func (c *Client) OnAuthStateChange(fn StateFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// notify invokes listeners outside the lock so callbacks can call back in.
func (c *Client) notify(state AuthState, session *Session) {
	c.mu.RLock()
	listeners := make([]StateFunc, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(state, session)
	}
}

// CurrentUser returns the signed-in user, or nil.
func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	return c.session.User
}

// CurrentSession returns the active session, or nil.
func (c *Client) CurrentSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SignUp registers a new account with email and password.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	body := map[string]string{"email": email, "password": password}
	session, err := c.tokenRequest(ctx, "/auth/v1/signup", body)
	if err != nil {
		return nil, err
	}
	c.setSession(session)
	c.notify(StateSignedIn, session)
	return session, nil
}

// SignInWithPassword authenticates with email and password.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	body := map[string]string{"email": email, "password": password}
	session, err := c.tokenRequest(ctx, "/auth/v1/token?grant_type=password", body)
	if err != nil {
		return nil, err
	}
	c.setSession(session)
	c.notify(StateSignedIn, session)
	return session, nil
}

// SignInWithOAuthURL builds the browser URL for an OAuth provider sign-in
// (e.g. "google"). The caller is responsible for opening it.
func (c *Client) SignInWithOAuthURL(provider, redirectTo string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	u, err := url.Parse(c.baseURL + "/auth/v1/authorize")
	if err != nil {
		return "", fmt.Errorf("invalid project URL: %w", err)
	}
	q := u.Query()
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RefreshSession exchanges the refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context) (*Session, error) {
	c.mu.RLock()
	current := c.session
	c.mu.RUnlock()
	if current == nil {
		return nil, ErrNotSignedIn
	}

	body := map[string]string{"refresh_token": current.RefreshToken}
	session, err := c.tokenRequest(ctx, "/auth/v1/token?grant_type=refresh_token", body)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) && (authErr.Code == http.StatusBadRequest || authErr.Code == http.StatusUnauthorized) {
			c.setSession(nil)
			c.notify(StateSignedOut, nil)
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	c.setSession(session)
	c.notify(StateRefreshed, session)
	return session, nil
}

// SignOut revokes the session server-side and clears local state.
// Local state is cleared even when revocation fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.RLock()
	current := c.session
	c.mu.RUnlock()
	if current == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err == nil {
		req.Header.Set("apikey", c.anonKey)
		req.Header.Set("Authorization", "Bearer "+current.AccessToken)
		if resp, doErr := c.http.Do(req); doErr == nil {
			io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
			resp.Body.Close()
		} else {
			// SECURITY: Never log tokens, only the failure itself.
			log.Printf("auth: sign-out revocation failed: %v", doErr)
		}
	}

	c.setSession(nil)
	c.notify(StateSignedOut, nil)
	return nil
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// =============================================================================
// HTTP PLUMBING
// =============================================================================

// errorResponse matches GoTrue's error body shape, which has varied between
// versions; both field pairs are accepted.
type errorResponse struct {
	Message          string `json:"msg"`
	ErrorCode        string `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *errorResponse) text() string {
	for _, s := range []string{e.Message, e.ErrorDescription, e.Error, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

func (c *Client) tokenRequest(ctx context.Context, path string, body map[string]string) (*Session, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil {
			if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
				if strings.Contains(strings.ToLower(errResp.text()), "credentials") ||
					strings.Contains(strings.ToLower(errResp.text()), "invalid login") {
					return nil, ErrInvalidCredentials
				}
			}
			return nil, &AuthError{Code: resp.StatusCode, Message: errResp.text()}
		}
		return nil, &AuthError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if session.AccessToken == "" {
		return nil, &AuthError{Code: resp.StatusCode, Message: "response missing access token"}
	}
	session.expiresAt = time.Now().Add(time.Duration(session.ExpiresIn) * time.Second)
	return &session, nil
}
