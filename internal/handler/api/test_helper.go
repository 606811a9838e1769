// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/model"
	"quill/internal/service"
	"quill/internal/store"
	"quill/internal/testutil"
)

const testSecret = "Av3ry$trongTestSecret-0123456789!!"

// testEnv bundles a fully wired API router with direct access to its
// dependencies for seeding test data.
type testEnv struct {
	router  chi.Router
	queries *store.Queries
	tokens  *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	queries := store.New(db)
	tokens := auth.NewTokenService(testSecret)
	log := testutil.TestLoggerSilent()
	cfg := &config.Config{Env: "test", JWTSecret: testSecret}
	media := service.NewMediaService(queries, t.TempDir(), log)

	h := NewHandler(db, queries, tokens, media, cfg, log)
	return &testEnv{
		router:  h.Routes(),
		queries: queries,
		tokens:  tokens,
	}
}

// createUser inserts a user with a real password hash and returns it
// with a valid bearer token.
func (e *testEnv) createUser(t *testing.T, email, password, role string) (model.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user, err := e.queries.CreateUser(context.Background(), store.CreateUserParams{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	token, err := e.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return user, token
}

func (e *testEnv) createAdmin(t *testing.T) (model.User, string) {
	t.Helper()
	return e.createUser(t, "admin@example.com", "admin-secret", model.RoleAdmin)
}

// do performs a JSON request against the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded JSON response into T.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshaling response %q: %v", rec.Body.String(), err)
	}
	return v
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}
