// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quill/internal/auth"
	"quill/internal/model"
)

const testSecret = "Av3ry$trongTestSecret-0123456789!!"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokenService(testSecret)
	valid, err := tokens.Issue(auth.Identity{UserID: 1, Email: "a@b.com", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expiredTokens := auth.NewTokenServiceWithTTL(testSecret, -time.Hour)
	expired, err := expiredTokens.Issue(auth.Identity{UserID: 1, Email: "a@b.com", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("Issue expired: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
	}

	mw := Authenticate(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			mw(okHandler()).ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthenticateStoresIdentity(t *testing.T) {
	tokens := auth.NewTokenService(testSecret)
	token, err := tokens.Issue(auth.Identity{UserID: 42, Email: "x@y.com", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got auth.Identity
	handler := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetIdentity(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.UserID != 42 || got.Role != model.RoleAdmin {
		t.Errorf("identity = %+v, want UserID 42 admin", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		identity   *auth.Identity
		wantStatus int
	}{
		{"admin passes", &auth.Identity{UserID: 1, Role: model.RoleAdmin}, http.StatusOK},
		{"user forbidden", &auth.Identity{UserID: 2, Role: model.RoleUser}, http.StatusForbidden},
		{"unauthenticated", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
			if tt.identity != nil {
				req = WithIdentity(req, *tt.identity)
			}
			rec := httptest.NewRecorder()
			RequireAdmin(okHandler()).ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRateLimitByIP(t *testing.T) {
	mw := RateLimitByIP(1, 2)
	handler := mw(okHandler())

	request := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 2 allowed, third request limited.
	if got := request("10.0.0.1:1234"); got != http.StatusOK {
		t.Errorf("first request status = %d, want 200", got)
	}
	if got := request("10.0.0.1:1234"); got != http.StatusOK {
		t.Errorf("second request status = %d, want 200", got)
	}
	if got := request("10.0.0.1:1234"); got != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", got)
	}

	// Different client is tracked separately.
	if got := request("10.0.0.2:1234"); got != http.StatusOK {
		t.Errorf("other client status = %d, want 200", got)
	}
}
