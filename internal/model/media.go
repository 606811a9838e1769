// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"strings"
	"time"
)

// MIME types accepted by the media library.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypePDF  = "application/pdf"
)

// Media represents an uploaded file. Path references the stored file on
// disk for as long as the record exists; Width and Height are set for
// images only.
type Media struct {
	ID           int64         `json:"id"`
	Filename     string        `json:"filename"`
	OriginalName string        `json:"originalName"`
	MimeType     string        `json:"mimeType"`
	Path         string        `json:"path"`
	Size         int64         `json:"size"`
	Width        sql.NullInt64 `json:"-"`
	Height       sql.NullInt64 `json:"-"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// IsImage returns true if the media item is an image.
func (m *Media) IsImage() bool {
	return strings.HasPrefix(m.MimeType, "image/")
}

// URL returns the public URL path for the stored file.
func (m *Media) URL() string {
	return "/uploads/" + m.Filename
}

// ThumbnailURL returns the public URL path for the image thumbnail, or an
// empty string for non-images.
func (m *Media) ThumbnailURL() string {
	if !m.IsImage() {
		return ""
	}
	return "/uploads/thumb_" + m.Filename
}
