// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionBody(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"access_token":  "token-abc",
		"refresh_token": "refresh-xyz",
		"expires_in":    3600,
		"token_type":    "bearer",
		"user":          map[string]string{"id": "user-1", "email": "a@b.co"},
	})
	require.NoError(t, err)
	return data
}

func TestSignInWithPassword(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write(sessionBody(t))
	}))
	defer server.Close()

	c := NewClient(server.URL, "anon-key").WithHTTPClient(server.Client())
	session, err := c.SignInWithPassword(context.Background(), "a@b.co", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, "/auth/v1/token?grant_type=password", gotPath)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "a@b.co", gotBody["email"])
	assert.Equal(t, "token-abc", session.AccessToken)
	assert.Equal(t, "user-1", c.CurrentUser().ID)
	assert.False(t, session.Expired())
}

func TestSignInInvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "anon-key").WithHTTPClient(server.Client())
	_, err := c.SignInWithPassword(context.Background(), "a@b.co", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, c.CurrentUser())
}

func TestSignUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		w.Write(sessionBody(t))
	}))
	defer server.Close()

	c := NewClient(server.URL, "anon-key").WithHTTPClient(server.Client())
	session, err := c.SignUp(context.Background(), "a@b.co", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", session.User.Email)
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("", "")
	_, err := c.SignInWithPassword(context.Background(), "a@b.co", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.SignUp(context.Background(), "a@b.co", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.SignInWithOAuthURL("google", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOAuthURL(t *testing.T) {
	c := NewClient("https://proj.supabase.co", "anon-key")
	u, err := c.SignInWithOAuthURL("google", "http://localhost:8765/callback")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://proj.supabase.co/auth/v1/authorize?"))
	assert.Contains(t, u, "provider=google")
	assert.Contains(t, u, "redirect_to=http%3A%2F%2Flocalhost%3A8765%2Fcallback")
}

func TestRefreshSession(t *testing.T) {
	var gotGrant string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotGrant = r.URL.Query().Get("grant_type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write(sessionBody(t))
	}))
	defer server.Close()

	c := NewClient(server.URL, "anon-key").WithHTTPClient(server.Client())
	c.setSession(&Session{AccessToken: "old", RefreshToken: "refresh-old"})

	var states []AuthState
	c.OnAuthStateChange(func(s AuthState, _ *Session) { states = append(states, s) })

	_, err := c.RefreshSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refresh_token", gotGrant)
	assert.Equal(t, "refresh-old", gotBody["refresh_token"])
	assert.Equal(t, []AuthState{StateRefreshed}, states)
}

func TestRefreshExpiredSignsOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"refresh token revoked"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "anon-key").WithHTTPClient(server.Client())
	c.setSession(&Session{AccessToken: "old", RefreshToken: "revoked"})

	var states []AuthState
	c.OnAuthStateChange(func(s AuthState, _ *Session) { states = append(states, s) })

	_, err := c.RefreshSession(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Nil(t, c.CurrentSession())
	assert.Equal(t, []AuthState{StateSignedOut}, states)
}

func TestRefreshWithoutSession(t *testing.T) {
	c := NewClient("https://proj.supabase.co", "anon-key")
	_, err := c.RefreshSession(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSignOut(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewClient(server.URL, "anon-key").WithHTTPClient(server.Client())
	c.setSession(&Session{AccessToken: "token-abc", User: &User{ID: "u"}})

	var states []AuthState
	c.OnAuthStateChange(func(s AuthState, sess *Session) {
		states = append(states, s)
		assert.Nil(t, sess)
	})

	require.NoError(t, c.SignOut(context.Background()))
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Nil(t, c.CurrentSession())
	assert.Nil(t, c.CurrentUser())
	assert.Equal(t, []AuthState{StateSignedOut}, states)
}

func TestSignOutClearsStateOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, "anon-key").WithHTTPClient(server.Client())
	c.setSession(&Session{AccessToken: "token-abc"})

	require.NoError(t, c.SignOut(context.Background()))
	assert.Nil(t, c.CurrentSession())
}

func TestAuthErrorSurface(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"msg":"rate limited"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "anon-key").WithHTTPClient(server.Client())
	_, err := c.SignInWithPassword(context.Background(), "a@b.co", "x")

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusTooManyRequests, authErr.Code)
	assert.Contains(t, authErr.Error(), "rate limited")
}

func TestSessionExpired(t *testing.T) {
	var s *Session
	assert.True(t, s.Expired(), "nil session counts as expired")
	assert.True(t, (&Session{}).Expired(), "zero session counts as expired")
}
