// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements business logic above the store layer:
// media upload processing and HTML content sanitization.
package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"quill/internal/model"
	"quill/internal/store"
)

// Upload limits
const (
	MaxUploadSize    = 5 * 1024 * 1024 // 5MB
	ThumbnailSize    = 300
	DefaultUploadDir = "./uploads"
)

// AllowedMimeTypes defines the MIME types that can be uploaded.
var AllowedMimeTypes = map[string]bool{
	model.MimeTypeJPEG: true,
	model.MimeTypePNG:  true,
	model.MimeTypeGIF:  true,
	model.MimeTypeWebP: true,
	model.MimeTypePDF:  true,
}

// UploadError marks an upload failure caused by the client's input
// rather than a server fault. Handlers map it to a 400 response.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string { return e.Message }

// MediaService handles media file operations.
type MediaService struct {
	queries   *store.Queries
	uploadDir string
	log       *slog.Logger
}

// NewMediaService creates a new media service writing files under uploadDir.
func NewMediaService(queries *store.Queries, uploadDir string, log *slog.Logger) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{
		queries:   queries,
		uploadDir: uploadDir,
		log:       log,
	}
}

// Upload validates an uploaded file, stores it on disk under a generated
// name, records it in the database, and for images writes a thumbnail
// and captures the original dimensions.
func (s *MediaService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (model.Media, error) {
	if header.Size > MaxUploadSize {
		return model.Media{}, &UploadError{Message: "File too large. Maximum size is 5MB."}
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !AllowedMimeTypes[mimeType] {
		return model.Media{}, &UploadError{Message: fmt.Sprintf("File type %s is not allowed", mimeType)}
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return model.Media{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return model.Media{}, &UploadError{Message: "File too large. Maximum size is 5MB."}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = extensionForMimeType(mimeType)
	}
	filename := uuid.New().String() + ext

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return model.Media{}, fmt.Errorf("create upload dir: %w", err)
	}

	filePath := filepath.Join(s.uploadDir, filename)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return model.Media{}, fmt.Errorf("write upload: %w", err)
	}

	var width, height sql.NullInt64
	if isImageMimeType(mimeType) {
		w, h, err := s.processImage(data, filename)
		if err != nil {
			// Keep the original even when thumbnailing fails.
			s.log.Warn("image processing failed", "filename", filename, "error", err)
		} else {
			width = sql.NullInt64{Int64: int64(w), Valid: true}
			height = sql.NullInt64{Int64: int64(h), Valid: true}
		}
	}

	media, err := s.queries.CreateMedia(ctx, store.CreateMediaParams{
		Filename:     filename,
		OriginalName: filepath.Base(header.Filename),
		MimeType:     mimeType,
		Path:         filePath,
		Size:         int64(len(data)),
		Width:        width,
		Height:       height,
	})
	if err != nil {
		_ = os.Remove(filePath)
		_ = os.Remove(s.thumbnailPath(filename))
		return model.Media{}, fmt.Errorf("create media record: %w", err)
	}

	return media, nil
}

// Delete removes a media record and its files. Missing files on disk
// are not treated as errors.
func (s *MediaService) Delete(ctx context.Context, mediaID int64) error {
	media, err := s.queries.GetMediaByID(ctx, mediaID)
	if err != nil {
		return err
	}

	if err := s.queries.DeleteMedia(ctx, mediaID); err != nil {
		return err
	}

	if err := os.Remove(media.Path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to delete media file", "path", media.Path, "error", err)
	}
	if media.IsImage() {
		thumbPath := s.thumbnailPath(media.Filename)
		if err := os.Remove(thumbPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to delete thumbnail", "path", thumbPath, "error", err)
		}
	}

	return nil
}

// processImage decodes the image for its dimensions and writes a
// thumbnail next to the original as thumb_<filename>.
func (s *MediaService) processImage(data []byte, filename string) (width, height int, err error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width = bounds.Dx()
	height = bounds.Dy()

	thumb := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)
	if err := imaging.Save(thumb, s.thumbnailPath(filename)); err != nil {
		return width, height, fmt.Errorf("save thumbnail: %w", err)
	}

	return width, height, nil
}

func (s *MediaService) thumbnailPath(filename string) string {
	return filepath.Join(s.uploadDir, "thumb_"+filename)
}

func mimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	case ".pdf":
		return model.MimeTypePDF
	default:
		return "application/octet-stream"
	}
}

func extensionForMimeType(mimeType string) string {
	switch mimeType {
	case model.MimeTypeJPEG:
		return ".jpg"
	case model.MimeTypePNG:
		return ".png"
	case model.MimeTypeGIF:
		return ".gif"
	case model.MimeTypeWebP:
		return ".webp"
	case model.MimeTypePDF:
		return ".pdf"
	default:
		return ".bin"
	}
}

func isImageMimeType(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP:
		return true
	default:
		return false
	}
}
