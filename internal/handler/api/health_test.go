// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
	"time"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	wantStatus(t, rec, http.StatusOK)

	body := decodeBody[struct {
		Status      string    `json:"status"`
		Timestamp   time.Time `json:"timestamp"`
		Environment string    `json:"environment"`
	}](t, rec)
	if body.Status != "OK" {
		t.Errorf("Status = %q, want OK", body.Status)
	}
	if body.Environment != "test" {
		t.Errorf("Environment = %q, want test", body.Environment)
	}
	if body.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestHealthProbes(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		wantStatus(t, rec, http.StatusOK)
	}
}

func TestNotFoundFallback(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/no/such/route", "", nil)
	wantStatus(t, rec, http.StatusNotFound)

	body := decodeBody[map[string]string](t, rec)
	if body["error"] == "" {
		t.Error("expected an error message")
	}
	if body["path"] != "/no/such/route" {
		t.Errorf("path = %q, want /no/such/route", body["path"])
	}
	if body["method"] != http.MethodGet {
		t.Errorf("method = %q, want GET", body["method"])
	}
}
