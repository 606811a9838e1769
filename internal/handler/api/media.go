// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"quill/internal/model"
	"quill/internal/service"
)

// mediaView is the JSON shape of a media record, with derived URLs and
// nullable image dimensions.
type mediaView struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Width        *int64    `json:"width"`
	Height       *int64    `json:"height"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newMediaView(m model.Media) mediaView {
	v := mediaView{
		ID:           m.ID,
		Filename:     m.Filename,
		OriginalName: m.OriginalName,
		MimeType:     m.MimeType,
		Size:         m.Size,
		URL:          m.URL(),
		CreatedAt:    m.CreatedAt,
	}
	if m.IsImage() {
		v.ThumbnailURL = m.ThumbnailURL()
	}
	if m.Width.Valid {
		w := m.Width.Int64
		v.Width = &w
	}
	if m.Height.Valid {
		h := m.Height.Int64
		v.Height = &h
	}
	return v
}

// UploadMedia accepts a multipart upload in the "file" field and stores
// it on disk plus a metadata row.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			WriteError(w, http.StatusBadRequest, "File too large. Maximum size is 5MB.")
			return
		}
		WriteError(w, http.StatusBadRequest, "Invalid upload request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	media, err := h.media.Upload(r.Context(), file, header)
	if err != nil {
		var uploadErr *service.UploadError
		if errors.As(err, &uploadErr) {
			WriteError(w, http.StatusBadRequest, uploadErr.Message)
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, newMediaView(media))
}

// ListMedia returns all media records newest-first.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListMedia(r.Context())
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	views := make([]mediaView, 0, len(items))
	for _, m := range items {
		views = append(views, newMediaView(m))
	}
	WriteJSON(w, http.StatusOK, views)
}

// DeleteMedia removes a media record and, best-effort, its files.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.media.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, r, err, "Media not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Media deleted successfully"})
}
