// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"quill/internal/middleware"
	"quill/internal/service"
	"quill/internal/store"
	"quill/internal/util"
)

type pageRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

// ListPages returns all pages newest-first. Passing ?published=true
// restricts the listing to published pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.queries.ListPages(r.Context(), r.URL.Query().Get("published") == "true")
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, pages)
}

// GetPage returns one page with its author.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	page, err := h.queries.GetPageByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err, "Page not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// GetPageBySlug returns one page with its author, keyed by slug.
func (h *Handler) GetPageBySlug(w http.ResponseWriter, r *http.Request) {
	page, err := h.queries.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeStoreError(w, r, err, "Page not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// CreatePage creates a page owned by the caller. The slug is generated
// from the title and a creation timestamp.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)

	var req pageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	details := make(map[string]string)
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		details["title"] = "Title is required"
	}
	if req.Content == nil || strings.TrimSpace(*req.Content) == "" {
		details["content"] = "Content is required"
	}
	if len(details) > 0 {
		WriteValidationError(w, "Validation failed", details)
		return
	}

	title := strings.TrimSpace(*req.Title)
	page, err := h.queries.CreatePage(r.Context(), store.CreatePageParams{
		Title:     title,
		Slug:      util.NewSlug(title),
		Content:   service.SanitizeHTML(*req.Content),
		Published: req.Published != nil && *req.Published,
		UserID:    identity.UserID,
	})
	if err != nil {
		h.writeStoreError(w, r, err, "", "A page with this slug already exists")
		return
	}

	created, err := h.queries.GetPageByID(r.Context(), page.ID)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// UpdatePage overwrites the provided fields; omitted fields keep their
// prior value. The slug is regenerated only when the title changes.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req pageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	current, err := h.queries.GetPageByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err, "Page not found", "")
		return
	}

	arg := store.UpdatePageParams{
		ID:        id,
		Title:     current.Title,
		Slug:      current.Slug,
		Content:   current.Content,
		Published: current.Published,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			WriteValidationError(w, "Validation failed", map[string]string{"title": "Title cannot be empty"})
			return
		}
		if title != current.Title {
			arg.Slug = util.NewSlug(title)
		}
		arg.Title = title
	}
	if req.Content != nil {
		arg.Content = service.SanitizeHTML(*req.Content)
	}
	if req.Published != nil {
		arg.Published = *req.Published
	}

	if _, err := h.queries.UpdatePage(r.Context(), arg); err != nil {
		h.writeStoreError(w, r, err, "Page not found", "A page with this slug already exists")
		return
	}

	updated, err := h.queries.GetPageByID(r.Context(), id)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// DeletePage removes a page.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeletePage(r.Context(), id); err != nil {
		h.writeStoreError(w, r, err, "Page not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Page deleted successfully"})
}

// TogglePagePublish flips the published flag.
func (h *Handler) TogglePagePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	current, err := h.queries.GetPageByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err, "Page not found", "")
		return
	}

	if _, err := h.queries.UpdatePage(r.Context(), store.UpdatePageParams{
		ID:        id,
		Title:     current.Title,
		Slug:      current.Slug,
		Content:   current.Content,
		Published: !current.Published,
	}); err != nil {
		h.writeStoreError(w, r, err, "Page not found", "")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"published": !current.Published})
}
