// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"quill/internal/model"
)

// PostWithAuthor is a post row joined with its author's public fields.
type PostWithAuthor struct {
	model.Post
	Author model.Author `json:"author"`
}

const postJoinQuery = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.published, p.published_at,
	       p.user_id, p.created_at, p.updated_at,
	       u.id, u.name, u.email
	FROM posts p
	JOIN users u ON u.id = p.user_id`

// CreatePostParams holds the fields for CreatePost.
type CreatePostParams struct {
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	Published   bool
	PublishedAt sql.NullTime
	UserID      int64
}

// CreatePost inserts a new post and returns the stored record.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, published, published_at, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, title, slug, content, excerpt, published, published_at, user_id, created_at, updated_at`,
		arg.Title, arg.Slug, arg.Content, arg.Excerpt, arg.Published, arg.PublishedAt, arg.UserID, now, now)
	return scanPost(row)
}

// ListPosts returns posts joined with authors, newest first. When
// publishedOnly is set, drafts are excluded.
func (q *Queries) ListPosts(ctx context.Context, publishedOnly bool) ([]PostWithAuthor, error) {
	query := postJoinQuery
	if publishedOnly {
		query += ` WHERE p.published = 1`
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	posts := make([]PostWithAuthor, 0)
	for rows.Next() {
		var p PostWithAuthor
		if err := scanPostWithAuthor(rows, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPostByID fetches a post with its author by primary key.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (PostWithAuthor, error) {
	row := q.db.QueryRowContext(ctx, postJoinQuery+` WHERE p.id = ?`, id)
	var p PostWithAuthor
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Published, &p.PublishedAt,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Email)
	return p, err
}

// GetPostBySlug fetches a post with its author by slug.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (PostWithAuthor, error) {
	row := q.db.QueryRowContext(ctx, postJoinQuery+` WHERE p.slug = ?`, slug)
	var p PostWithAuthor
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Published, &p.PublishedAt,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Email)
	return p, err
}

// UpdatePostParams holds the fields for UpdatePost.
type UpdatePostParams struct {
	ID          int64
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	Published   bool
	PublishedAt sql.NullTime
}

// UpdatePost overwrites a post's editable fields and returns the updated record.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE posts
		SET title = ?, slug = ?, content = ?, excerpt = ?, published = ?, published_at = ?, updated_at = ?
		WHERE id = ?
		RETURNING id, title, slug, content, excerpt, published, published_at, user_id, created_at, updated_at`,
		arg.Title, arg.Slug, arg.Content, arg.Excerpt, arg.Published, arg.PublishedAt, time.Now().UTC(), arg.ID)
	return scanPost(row)
}

// DeletePost removes a post by ID. Returns sql.ErrNoRows when the post
// does not exist.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
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

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

func scanPost(row *sql.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Published, &p.PublishedAt,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanPostWithAuthor(rows *sql.Rows, p *PostWithAuthor) error {
	return rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Published, &p.PublishedAt,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Email)
}
