// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/renacermascotas/renacer-go/internal/model"
)

const galleryColumns = `id, media_url, description, created_at`

const createGalleryItem = `
INSERT INTO gallery_items (media_url, description, created_at)
VALUES (?, ?, ?)
RETURNING ` + galleryColumns

// CreateGalleryItemParams holds the fields needed to create a gallery item.
type CreateGalleryItemParams struct {
	MediaURL    string
	Description sql.NullString
	CreatedAt   time.Time
}

// CreateGalleryItem inserts a new gallery item and returns the stored row.
func (q *Queries) CreateGalleryItem(ctx context.Context, arg CreateGalleryItemParams) (model.GalleryItem, error) {
	row := q.db.QueryRowContext(ctx, createGalleryItem, arg.MediaURL, arg.Description, arg.CreatedAt)
	return scanGalleryItem(row)
}

const getGalleryItemByID = `SELECT ` + galleryColumns + ` FROM gallery_items WHERE id = ?`

// GetGalleryItemByID returns the gallery item with the given ID.
func (q *Queries) GetGalleryItemByID(ctx context.Context, id int64) (model.GalleryItem, error) {
	return scanGalleryItem(q.db.QueryRowContext(ctx, getGalleryItemByID, id))
}

const listGalleryItems = `
SELECT ` + galleryColumns + ` FROM gallery_items
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

// ListGalleryItemsParams holds pagination bounds for listing gallery items.
type ListGalleryItemsParams struct {
	Limit  int64
	Offset int64
}

// ListGalleryItems returns gallery items newest first.
func (q *Queries) ListGalleryItems(ctx context.Context, arg ListGalleryItemsParams) ([]model.GalleryItem, error) {
	rows, err := q.db.QueryContext(ctx, listGalleryItems, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.GalleryItem{}
	for rows.Next() {
		var g model.GalleryItem
		if err := rows.Scan(&g.ID, &g.MediaURL, &g.Description, &g.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

const countGalleryItems = `SELECT COUNT(*) FROM gallery_items`

// CountGalleryItems returns the total number of gallery items.
func (q *Queries) CountGalleryItems(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countGalleryItems).Scan(&count)
	return count, err
}

const updateGalleryItem = `
UPDATE gallery_items SET media_url = ?, description = ?
WHERE id = ?
RETURNING ` + galleryColumns

// UpdateGalleryItemParams holds the full set of mutable gallery item fields.
type UpdateGalleryItemParams struct {
	ID          int64
	MediaURL    string
	Description sql.NullString
}

// UpdateGalleryItem replaces the mutable fields of a gallery item.
func (q *Queries) UpdateGalleryItem(ctx context.Context, arg UpdateGalleryItemParams) (model.GalleryItem, error) {
	row := q.db.QueryRowContext(ctx, updateGalleryItem, arg.MediaURL, arg.Description, arg.ID)
	return scanGalleryItem(row)
}

const deleteGalleryItem = `DELETE FROM gallery_items WHERE id = ?`

// DeleteGalleryItem removes a gallery item by ID.
func (q *Queries) DeleteGalleryItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteGalleryItem, id)
	return err
}

func scanGalleryItem(row *sql.Row) (model.GalleryItem, error) {
	var g model.GalleryItem
	err := row.Scan(&g.ID, &g.MediaURL, &g.Description, &g.CreatedAt)
	return g, err
}
