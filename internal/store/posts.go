// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/renacermascotas/renacer-go/internal/model"
)

const postColumns = `id, title, slug, content, image_url, created_at, updated_at`

const createPost = `
INSERT INTO posts (title, slug, content, image_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

// CreatePostParams holds the fields needed to create a blog post.
type CreatePostParams struct {
	Title     string
	Slug      string
	Content   string
	ImageURL  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePost inserts a new blog post and returns the stored row.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.Title, arg.Slug, arg.Content, arg.ImageURL, arg.CreatedAt, arg.UpdatedAt)
	return scanPost(row)
}

const getPostByID = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

// GetPostByID returns the post with the given ID.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostByID, id))
}

const getPostBySlug = `SELECT ` + postColumns + ` FROM posts WHERE slug = ?`

// GetPostBySlug returns the post with the given URL slug.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostBySlug, slug))
}

const listPosts = `
SELECT ` + postColumns + ` FROM posts
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

// ListPostsParams holds pagination bounds for listing posts.
type ListPostsParams struct {
	Limit  int64
	Offset int64
}

// ListPosts returns posts newest first.
func (q *Queries) ListPosts(ctx context.Context, arg ListPostsParams) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, listPosts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

const countPosts = `SELECT COUNT(*) FROM posts`

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPosts).Scan(&count)
	return count, err
}

const searchPosts = `
SELECT ` + postColumns + ` FROM posts
WHERE LOWER(title) LIKE LOWER(?) ESCAPE '\'
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

// SearchPostsParams holds a title filter plus pagination bounds.
type SearchPostsParams struct {
	Query  string
	Limit  int64
	Offset int64
}

// SearchPosts returns posts whose title contains the query, newest first.
func (q *Queries) SearchPosts(ctx context.Context, arg SearchPostsParams) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, searchPosts, likePattern(arg.Query), arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

const countSearchPosts = `SELECT COUNT(*) FROM posts WHERE LOWER(title) LIKE LOWER(?) ESCAPE '\'`

// CountSearchPosts returns the number of posts whose title contains the query.
func (q *Queries) CountSearchPosts(ctx context.Context, query string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSearchPosts, likePattern(query)).Scan(&count)
	return count, err
}

const updatePost = `
UPDATE posts SET title = ?, slug = ?, content = ?, image_url = ?, updated_at = ?
WHERE id = ?
RETURNING ` + postColumns

// UpdatePostParams holds the full set of mutable post fields.
type UpdatePostParams struct {
	ID        int64
	Title     string
	Slug      string
	Content   string
	ImageURL  sql.NullString
	UpdatedAt time.Time
}

// UpdatePost replaces the mutable fields of a post and returns the stored row.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost,
		arg.Title, arg.Slug, arg.Content, arg.ImageURL, arg.UpdatedAt, arg.ID)
	return scanPost(row)
}

const deletePost = `DELETE FROM posts WHERE id = ?`

// DeletePost removes a post by ID.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}

func scanPost(row *sql.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// likePattern wraps a search term for substring matching. Literal LIKE
// wildcards in the term are escaped so user input cannot widen the match.
func likePattern(term string) string {
	escaped := ""
	for _, r := range term {
		if r == '%' || r == '_' || r == '\\' {
			escaped += `\`
		}
		escaped += string(r)
	}
	return "%" + escaped + "%"
}
