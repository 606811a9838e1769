// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"quill/internal/model"
)

const mediaColumns = `id, filename, original_name, mime_type, path, size, width, height, created_at`

// CreateMediaParams holds the fields for CreateMedia.
type CreateMediaParams struct {
	Filename     string
	OriginalName string
	MimeType     string
	Path         string
	Size         int64
	Width        sql.NullInt64
	Height       sql.NullInt64
}

// CreateMedia inserts a new media record and returns the stored row.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO media (filename, original_name, mime_type, path, size, width, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+mediaColumns,
		arg.Filename, arg.OriginalName, arg.MimeType, arg.Path, arg.Size, arg.Width, arg.Height,
		time.Now().UTC())
	return scanMedia(row)
}

// ListMedia returns all media records, newest first.
func (q *Queries) ListMedia(ctx context.Context) ([]model.Media, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+mediaColumns+` FROM media ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := make([]model.Media, 0)
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Path,
			&m.Size, &m.Width, &m.Height, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetMediaByID fetches a media record by primary key.
func (q *Queries) GetMediaByID(ctx context.Context, id int64) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	return scanMedia(row)
}

// DeleteMedia removes a media record by ID. Returns sql.ErrNoRows when
// the record does not exist.
func (q *Queries) DeleteMedia(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountMedia returns the total number of media records.
func (q *Queries) CountMedia(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n)
	return n, err
}

func scanMedia(row *sql.Row) (model.Media, error) {
	var m model.Media
	err := row.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Path,
		&m.Size, &m.Width, &m.Height, &m.CreatedAt)
	return m, err
}
