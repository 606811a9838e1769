// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides REST API handlers for the CMS.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/middleware"
	"quill/internal/service"
	"quill/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db      *sql.DB
	queries *store.Queries
	tokens  *auth.TokenService
	media   *service.MediaService
	cfg     *config.Config
	log     *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, queries *store.Queries, tokens *auth.TokenService, media *service.MediaService, cfg *config.Config, log *slog.Logger) *Handler {
	return &Handler{
		db:      db,
		queries: queries,
		tokens:  tokens,
		media:   media,
		cfg:     cfg,
		log:     log,
	}
}

// Routes mounts all API endpoints on a fresh router. Reads are public;
// mutations require an admin bearer token.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	authenticated := middleware.Authenticate(h.tokens)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(10, 30))
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.With(authenticated).Get("/me", h.Me)
		r.Post("/logout", h.Logout)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/{id}", h.GetPost)
		r.Get("/slug/{slug}", h.GetPostBySlug)
		r.Group(func(r chi.Router) {
			r.Use(authenticated, middleware.RequireAdmin)
			r.Post("/", h.CreatePost)
			r.Put("/{id}", h.UpdatePost)
			r.Delete("/{id}", h.DeletePost)
			r.Patch("/{id}/publish", h.TogglePostPublish)
		})
	})

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", h.ListPages)
		r.Get("/{id}", h.GetPage)
		r.Get("/slug/{slug}", h.GetPageBySlug)
		r.Group(func(r chi.Router) {
			r.Use(authenticated, middleware.RequireAdmin)
			r.Post("/", h.CreatePage)
			r.Put("/{id}", h.UpdatePage)
			r.Delete("/{id}", h.DeletePage)
			r.Patch("/{id}/publish", h.TogglePagePublish)
		})
	})

	r.Route("/media", func(r chi.Router) {
		r.Use(authenticated, middleware.RequireAdmin)
		r.Post("/upload", h.UploadMedia)
		r.Get("/", h.ListMedia)
		r.Delete("/{id}", h.DeleteMedia)
	})

	r.With(authenticated).Get("/stats", h.Stats)

	r.Get("/health", h.Health)
	r.Get("/health/live", h.HealthLive)
	r.Get("/health/ready", h.HealthReady)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	return r
}

// NotFound answers unmatched API routes with a JSON body naming the
// missed path and method.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]string{
		"error":  "Route not found",
		"path":   r.URL.Path,
		"method": r.Method,
	})
}

// errorResponse is the standard API error body.
type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, errorResponse{Error: message})
}

// WriteValidationError writes a 400 with per-field details.
func WriteValidationError(w http.ResponseWriter, message string, details map[string]string) {
	WriteJSON(w, http.StatusBadRequest, errorResponse{Error: message, Details: details})
}

// writeStoreError maps store failures to the API error taxonomy:
// missing rows become 404, uniqueness violations 409, anything else 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg, conflictMsg string) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		WriteError(w, http.StatusNotFound, notFoundMsg)
	case store.IsUniqueViolation(err):
		WriteError(w, http.StatusConflict, conflictMsg)
	default:
		h.writeInternalError(w, r, err)
	}
}

// writeInternalError logs the failure and answers 500. The underlying
// message is only exposed in development mode.
func (h *Handler) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("internal error", "path", r.URL.Path, "method", r.Method, "error", err)
	message := "Internal server error"
	if h.cfg.IsDevelopment() {
		message = err.Error()
	}
	WriteError(w, http.StatusInternalServerError, message)
}

// decodeJSON reads the request body into dst. Returns false after
// answering 400 when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// idParam parses the {id} URL parameter. Returns false after answering
// 400 when it is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}
