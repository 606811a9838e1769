// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"quill/internal/middleware"
	"quill/internal/model"
	"quill/internal/service"
	"quill/internal/store"
	"quill/internal/util"
)

// postView is the JSON shape of a post, with publishedAt rendered as a
// nullable timestamp.
type postView struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Content     string        `json:"content"`
	Excerpt     string        `json:"excerpt"`
	Published   bool          `json:"published"`
	PublishedAt *time.Time    `json:"publishedAt"`
	UserID      int64         `json:"userId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Author      *model.Author `json:"author,omitempty"`
}

func newPostView(p model.Post, author *model.Author) postView {
	v := postView{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		Excerpt:   p.Excerpt,
		Published: p.Published,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Author:    author,
	}
	if p.PublishedAt.Valid {
		t := p.PublishedAt.Time
		v.PublishedAt = &t
	}
	return v
}

func newPostWithAuthorView(p store.PostWithAuthor) postView {
	author := p.Author
	return newPostView(p.Post, &author)
}

type postRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Excerpt   *string `json:"excerpt"`
	Published *bool   `json:"published"`
}

// ListPosts returns all posts newest-first. Passing ?published=true
// restricts the listing to published posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPosts(r.Context(), r.URL.Query().Get("published") == "true")
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostWithAuthorView(p))
	}
	WriteJSON(w, http.StatusOK, views)
}

// GetPost returns one post with its author.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err, "Post not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, newPostWithAuthorView(post))
}

// GetPostBySlug returns one post with its author, keyed by slug.
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.queries.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeStoreError(w, r, err, "Post not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, newPostWithAuthorView(post))
}

// CreatePost creates a post owned by the caller. The slug is generated
// from the title and a creation timestamp.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)

	var req postRequest
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
	published := req.Published != nil && *req.Published
	var publishedAt sql.NullTime
	if published {
		publishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}
	excerpt := ""
	if req.Excerpt != nil {
		excerpt = strings.TrimSpace(*req.Excerpt)
	}

	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Title:       title,
		Slug:        util.NewSlug(title),
		Content:     service.SanitizeHTML(*req.Content),
		Excerpt:     excerpt,
		Published:   published,
		PublishedAt: publishedAt,
		UserID:      identity.UserID,
	})
	if err != nil {
		h.writeStoreError(w, r, err, "", "A post with this slug already exists")
		return
	}

	created, err := h.queries.GetPostByID(r.Context(), post.ID)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, newPostWithAuthorView(created))
}

// UpdatePost overwrites the provided fields; omitted fields keep their
// prior value. The slug is regenerated only when the title changes.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	current, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err, "Post not found", "")
		return
	}

	arg := store.UpdatePostParams{
		ID:          id,
		Title:       current.Title,
		Slug:        current.Slug,
		Content:     current.Content,
		Excerpt:     current.Excerpt,
		Published:   current.Published,
		PublishedAt: current.PublishedAt,
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
	if req.Excerpt != nil {
		arg.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.Published != nil && *req.Published != current.Published {
		arg.Published = *req.Published
		if *req.Published {
			arg.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
		} else {
			arg.PublishedAt = sql.NullTime{}
		}
	}

	if _, err := h.queries.UpdatePost(r.Context(), arg); err != nil {
		h.writeStoreError(w, r, err, "Post not found", "A post with this slug already exists")
		return
	}

	updated, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, newPostWithAuthorView(updated))
}

// DeletePost removes a post.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeletePost(r.Context(), id); err != nil {
		h.writeStoreError(w, r, err, "Post not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

// TogglePostPublish flips the published flag. publishedAt is set when
// the post becomes published and cleared when it is unpublished.
func (h *Handler) TogglePostPublish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	current, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err, "Post not found", "")
		return
	}

	arg := store.UpdatePostParams{
		ID:        id,
		Title:     current.Title,
		Slug:      current.Slug,
		Content:   current.Content,
		Excerpt:   current.Excerpt,
		Published: !current.Published,
	}
	if arg.Published {
		arg.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	if _, err := h.queries.UpdatePost(r.Context(), arg); err != nil {
		h.writeStoreError(w, r, err, "Post not found", "")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"published": arg.Published})
}
