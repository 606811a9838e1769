// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"quill/internal/model"
)

type postBody struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Content     string        `json:"content"`
	Excerpt     string        `json:"excerpt"`
	Published   bool          `json:"published"`
	PublishedAt *time.Time    `json:"publishedAt"`
	UserID      int64         `json:"userId"`
	Author      *model.Author `json:"author"`
}

func (e *testEnv) createPost(t *testing.T, token, title string) postBody {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/posts", token, map[string]any{
		"title":   title,
		"content": "<p>Body</p>",
	})
	wantStatus(t, rec, http.StatusCreated)
	return decodeBody[postBody](t, rec)
}

func TestCreatePostGeneratesSlug(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)

	post := env.createPost(t, token, "Hello World!")
	if matched, _ := regexp.MatchString(`^hello-world-\d+$`, post.Slug); !matched {
		t.Errorf("Slug = %q, want hello-world-<digits>", post.Slug)
	}
	if post.Author == nil || post.Author.Email != "admin@example.com" {
		t.Errorf("Author = %+v, want admin author", post.Author)
	}
}

func TestCreatePostRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser(t, "user@example.com", "secret1", model.RoleUser)

	payload := map[string]any{"title": "T", "content": "C"}

	rec := env.do(t, http.MethodPost, "/posts", "", payload)
	wantStatus(t, rec, http.StatusUnauthorized)

	rec = env.do(t, http.MethodPost, "/posts", userToken, payload)
	wantStatus(t, rec, http.StatusForbidden)
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)

	rec := env.do(t, http.MethodPost, "/posts", token, map[string]any{"title": "Only title"})
	wantStatus(t, rec, http.StatusBadRequest)
	body := decodeBody[errorBody](t, rec)
	if _, ok := body.Details["content"]; !ok {
		t.Errorf("details = %v, want content field", body.Details)
	}
}

func TestCreatePostSanitizesContent(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)

	rec := env.do(t, http.MethodPost, "/posts", token, map[string]any{
		"title":   "XSS",
		"content": `<p>ok</p><script>alert(1)</script>`,
	})
	wantStatus(t, rec, http.StatusCreated)
	post := decodeBody[postBody](t, rec)
	if post.Content != "<p>ok</p>" {
		t.Errorf("Content = %q, want script stripped", post.Content)
	}
}

func TestUpdatePostSlugBehavior(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)
	post := env.createPost(t, token, "Original Title")

	// Editing without changing the title keeps the slug.
	rec := env.do(t, http.MethodPut, "/posts/"+itoa(post.ID), token, map[string]any{
		"content": "new body",
	})
	wantStatus(t, rec, http.StatusOK)
	updated := decodeBody[postBody](t, rec)
	if updated.Slug != post.Slug {
		t.Errorf("Slug changed on content-only edit: %q -> %q", post.Slug, updated.Slug)
	}

	// Re-sending the same title also keeps the slug.
	rec = env.do(t, http.MethodPut, "/posts/"+itoa(post.ID), token, map[string]any{
		"title": "Original Title",
	})
	wantStatus(t, rec, http.StatusOK)
	updated = decodeBody[postBody](t, rec)
	if updated.Slug != post.Slug {
		t.Errorf("Slug changed on same-title edit: %q -> %q", post.Slug, updated.Slug)
	}

	// Changing the title regenerates it.
	rec = env.do(t, http.MethodPut, "/posts/"+itoa(post.ID), token, map[string]any{
		"title": "Brand New Title",
	})
	wantStatus(t, rec, http.StatusOK)
	updated = decodeBody[postBody](t, rec)
	if updated.Slug == post.Slug {
		t.Error("Slug did not change after title edit")
	}
	if matched, _ := regexp.MatchString(`^brand-new-title-\d+$`, updated.Slug); !matched {
		t.Errorf("Slug = %q, want brand-new-title-<digits>", updated.Slug)
	}
}

func TestTogglePostPublish(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)
	post := env.createPost(t, token, "Draft")

	if post.Published {
		t.Fatal("new post should start unpublished")
	}
	if post.PublishedAt != nil {
		t.Fatal("unpublished post should have null publishedAt")
	}

	rec := env.do(t, http.MethodPatch, "/posts/"+itoa(post.ID)+"/publish", token, nil)
	wantStatus(t, rec, http.StatusOK)
	if body := decodeBody[map[string]bool](t, rec); !body["published"] {
		t.Error("expected published=true after toggle")
	}

	rec = env.do(t, http.MethodGet, "/posts/"+itoa(post.ID), "", nil)
	wantStatus(t, rec, http.StatusOK)
	published := decodeBody[postBody](t, rec)
	if !published.Published {
		t.Error("expected post to be published after toggle")
	}
	if published.PublishedAt == nil {
		t.Error("expected publishedAt to be set after publishing")
	}

	// Toggle is its own inverse.
	rec = env.do(t, http.MethodPatch, "/posts/"+itoa(post.ID)+"/publish", token, nil)
	wantStatus(t, rec, http.StatusOK)
	if body := decodeBody[map[string]bool](t, rec); body["published"] {
		t.Error("expected published=false after second toggle")
	}

	rec = env.do(t, http.MethodGet, "/posts/"+itoa(post.ID), "", nil)
	wantStatus(t, rec, http.StatusOK)
	unpublished := decodeBody[postBody](t, rec)
	if unpublished.Published {
		t.Error("expected post to be unpublished after second toggle")
	}
	if unpublished.PublishedAt != nil {
		t.Error("expected publishedAt to be cleared after unpublishing")
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)

	first := env.createPost(t, token, "First")
	second := env.createPost(t, token, "Second")

	rec := env.do(t, http.MethodGet, "/posts", "", nil)
	wantStatus(t, rec, http.StatusOK)
	posts := decodeBody[[]postBody](t, rec)
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Errorf("order = [%d %d], want [%d %d]", posts[0].ID, posts[1].ID, second.ID, first.ID)
	}
}

func TestGetPostBySlug(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)
	post := env.createPost(t, token, "Sluggable")

	rec := env.do(t, http.MethodGet, "/posts/slug/"+post.Slug, "", nil)
	wantStatus(t, rec, http.StatusOK)
	got := decodeBody[postBody](t, rec)
	if got.ID != post.ID {
		t.Errorf("ID = %d, want %d", got.ID, post.ID)
	}

	rec = env.do(t, http.MethodGet, "/posts/slug/no-such-slug", "", nil)
	wantStatus(t, rec, http.StatusNotFound)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)
	post := env.createPost(t, token, "Doomed")

	rec := env.do(t, http.MethodDelete, "/posts/"+itoa(post.ID), token, nil)
	wantStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodGet, "/posts/"+itoa(post.ID), "", nil)
	wantStatus(t, rec, http.StatusNotFound)

	// Deleting again is a 404, not a server error.
	rec = env.do(t, http.MethodDelete, "/posts/"+itoa(post.ID), token, nil)
	wantStatus(t, rec, http.StatusNotFound)
}

func TestGetPostInvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/posts/not-a-number", "", nil)
	wantStatus(t, rec, http.StatusBadRequest)
}
