// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"quill/internal/model"
)

type mediaBody struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Width        *int64 `json:"width"`
	Height       *int64 `json:"height"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// uploadFile posts a multipart body with the given file in the "file" field.
func (e *testEnv) uploadFile(t *testing.T, token, filename, mimeType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/media/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 24))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadMedia(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)

	rec := env.uploadFile(t, token, "photo.png", "image/png", testPNG(t))
	wantStatus(t, rec, http.StatusCreated)

	body := decodeBody[mediaBody](t, rec)
	if body.OriginalName != "photo.png" {
		t.Errorf("OriginalName = %q, want %q", body.OriginalName, "photo.png")
	}
	if body.URL != "/uploads/"+body.Filename {
		t.Errorf("URL = %q, want /uploads/%s", body.URL, body.Filename)
	}
	if body.ThumbnailURL != "/uploads/thumb_"+body.Filename {
		t.Errorf("ThumbnailURL = %q, want /uploads/thumb_%s", body.ThumbnailURL, body.Filename)
	}
	if body.Width == nil || *body.Width != 32 {
		t.Errorf("Width = %v, want 32", body.Width)
	}
}

func TestUploadMediaRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser(t, "user@example.com", "secret1", model.RoleUser)

	rec := env.uploadFile(t, "", "photo.png", "image/png", testPNG(t))
	wantStatus(t, rec, http.StatusUnauthorized)

	rec = env.uploadFile(t, userToken, "photo.png", "image/png", testPNG(t))
	wantStatus(t, rec, http.StatusForbidden)
}

func TestUploadMediaNoFile(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("other", "value"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/media/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	wantStatus(t, rec, http.StatusBadRequest)
}

func TestUploadMediaNonMultipartBody(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)

	req := httptest.NewRequest(http.MethodPost, "/media/upload", bytes.NewBufferString(`{"file":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	wantStatus(t, rec, http.StatusBadRequest)
	body := decodeBody[errorBody](t, rec)
	if body.Error != "Invalid upload request" {
		t.Errorf("Error = %q, want %q", body.Error, "Invalid upload request")
	}
}

func TestUploadMediaRejectsDisallowedType(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)

	rec := env.uploadFile(t, token, "script.sh", "text/x-shellscript", []byte("#!/bin/sh"))
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestListAndDeleteMedia(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t)

	up := env.uploadFile(t, token, "photo.png", "image/png", testPNG(t))
	wantStatus(t, up, http.StatusCreated)
	uploaded := decodeBody[mediaBody](t, up)

	rec := env.do(t, http.MethodGet, "/media", token, nil)
	wantStatus(t, rec, http.StatusOK)
	items := decodeBody[[]mediaBody](t, rec)
	if len(items) != 1 || items[0].ID != uploaded.ID {
		t.Fatalf("items = %+v, want the uploaded record", items)
	}

	rec = env.do(t, http.MethodDelete, "/media/"+itoa(uploaded.ID), token, nil)
	wantStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodDelete, "/media/"+itoa(uploaded.ID), token, nil)
	wantStatus(t, rec, http.StatusNotFound)
}

func TestListMediaRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/media", "", nil)
	wantStatus(t, rec, http.StatusUnauthorized)
}
