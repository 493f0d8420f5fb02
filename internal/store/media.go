// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/renacermascotas/renacer-go/internal/model"
)

const mediaColumns = `id, uuid, filename, mime_type, size, url, uploaded_by, created_at`

const createMedia = `
INSERT INTO media (uuid, filename, mime_type, size, url, uploaded_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + mediaColumns

// CreateMediaParams holds the fields needed to record an uploaded file.
type CreateMediaParams struct {
	UUID       string
	Filename   string
	MimeType   string
	Size       int64
	URL        string
	UploadedBy sql.NullInt64
	CreatedAt  time.Time
}

// CreateMedia inserts a media record and returns the stored row.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, createMedia,
		arg.UUID, arg.Filename, arg.MimeType, arg.Size, arg.URL, arg.UploadedBy, arg.CreatedAt)
	return scanMedia(row)
}

const getMediaByURL = `SELECT ` + mediaColumns + ` FROM media WHERE url = ?`

// GetMediaByURL returns the media record serving the given URL.
func (q *Queries) GetMediaByURL(ctx context.Context, url string) (model.Media, error) {
	return scanMedia(q.db.QueryRowContext(ctx, getMediaByURL, url))
}

const deleteMedia = `DELETE FROM media WHERE id = ?`

// DeleteMedia removes a media record by ID.
func (q *Queries) DeleteMedia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMedia, id)
	return err
}

// Orphans are media rows whose URL is no longer referenced by any content
// record. The grace period keeps freshly uploaded files that have not been
// attached yet.
const listOrphanMedia = `
SELECT ` + mediaColumns + ` FROM media m
WHERE m.created_at < ?
  AND NOT EXISTS (SELECT 1 FROM posts        WHERE image_url = m.url)
  AND NOT EXISTS (SELECT 1 FROM gallery_items WHERE media_url = m.url)
  AND NOT EXISTS (SELECT 1 FROM testimonials WHERE image_url = m.url)
  AND NOT EXISTS (SELECT 1 FROM partners     WHERE logo_url = m.url)
  AND NOT EXISTS (SELECT 1 FROM agreements   WHERE logo_url = m.url)
`

// ListOrphanMedia returns media records created before the cutoff that no
// content row references.
func (q *Queries) ListOrphanMedia(ctx context.Context, olderThan time.Time) ([]model.Media, error) {
	rows, err := q.db.QueryContext(ctx, listOrphanMedia, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []model.Media{}
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.UUID, &m.Filename, &m.MimeType, &m.Size,
			&m.URL, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func scanMedia(row *sql.Row) (model.Media, error) {
	var m model.Media
	err := row.Scan(&m.ID, &m.UUID, &m.Filename, &m.MimeType, &m.Size,
		&m.URL, &m.UploadedBy, &m.CreatedAt)
	return m, err
}
