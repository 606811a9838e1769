// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"quill/internal/model"
)

// PageWithAuthor is a page row joined with its author's public fields.
type PageWithAuthor struct {
	model.Page
	Author model.Author `json:"author"`
}

const pageJoinQuery = `
	SELECT p.id, p.title, p.slug, p.content, p.published,
	       p.user_id, p.created_at, p.updated_at,
	       u.id, u.name, u.email
	FROM pages p
	JOIN users u ON u.id = p.user_id`

// CreatePageParams holds the fields for CreatePage.
type CreatePageParams struct {
	Title     string
	Slug      string
	Content   string
	Published bool
	UserID    int64
}

// CreatePage inserts a new page and returns the stored record.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO pages (title, slug, content, published, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, title, slug, content, published, user_id, created_at, updated_at`,
		arg.Title, arg.Slug, arg.Content, arg.Published, arg.UserID, now, now)
	return scanPage(row)
}

// ListPages returns pages joined with authors, newest first. When
// publishedOnly is set, drafts are excluded.
func (q *Queries) ListPages(ctx context.Context, publishedOnly bool) ([]PageWithAuthor, error) {
	query := pageJoinQuery
	if publishedOnly {
		query += ` WHERE p.published = 1`
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	pages := make([]PageWithAuthor, 0)
	for rows.Next() {
		var p PageWithAuthor
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Published,
			&p.UserID, &p.CreatedAt, &p.UpdatedAt,
			&p.Author.ID, &p.Author.Name, &p.Author.Email); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetPageByID fetches a page with its author by primary key.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (PageWithAuthor, error) {
	row := q.db.QueryRowContext(ctx, pageJoinQuery+` WHERE p.id = ?`, id)
	return scanPageWithAuthor(row)
}

// GetPageBySlug fetches a page with its author by slug.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (PageWithAuthor, error) {
	row := q.db.QueryRowContext(ctx, pageJoinQuery+` WHERE p.slug = ?`, slug)
	return scanPageWithAuthor(row)
}

// UpdatePageParams holds the fields for UpdatePage.
type UpdatePageParams struct {
	ID        int64
	Title     string
	Slug      string
	Content   string
	Published bool
}

// UpdatePage overwrites a page's editable fields and returns the updated record.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE pages
		SET title = ?, slug = ?, content = ?, published = ?, updated_at = ?
		WHERE id = ?
		RETURNING id, title, slug, content, published, user_id, created_at, updated_at`,
		arg.Title, arg.Slug, arg.Content, arg.Published, time.Now().UTC(), arg.ID)
	return scanPage(row)
}

// DeletePage removes a page by ID. Returns sql.ErrNoRows when the page
// does not exist.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
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

// CountPages returns the total number of pages.
func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n)
	return n, err
}

func scanPage(row *sql.Row) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Published,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanPageWithAuthor(row *sql.Row) (PageWithAuthor, error) {
	var p PageWithAuthor
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Published,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Email)
	return p, err
}
