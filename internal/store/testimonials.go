// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/renacermascotas/renacer-go/internal/model"
)

const testimonialColumns = `id, author, text, image_url, created_at`

const createTestimonial = `
INSERT INTO testimonials (author, text, image_url, created_at)
VALUES (?, ?, ?, ?)
RETURNING ` + testimonialColumns

// CreateTestimonialParams holds the fields needed to create a testimonial.
type CreateTestimonialParams struct {
	Author    string
	Text      string
	ImageURL  sql.NullString
	CreatedAt time.Time
}

// CreateTestimonial inserts a new testimonial and returns the stored row.
func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (model.Testimonial, error) {
	row := q.db.QueryRowContext(ctx, createTestimonial, arg.Author, arg.Text, arg.ImageURL, arg.CreatedAt)
	return scanTestimonial(row)
}

const getTestimonialByID = `SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = ?`

// GetTestimonialByID returns the testimonial with the given ID.
func (q *Queries) GetTestimonialByID(ctx context.Context, id int64) (model.Testimonial, error) {
	return scanTestimonial(q.db.QueryRowContext(ctx, getTestimonialByID, id))
}

const listTestimonials = `
SELECT ` + testimonialColumns + ` FROM testimonials
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

// ListTestimonialsParams holds pagination bounds for listing testimonials.
type ListTestimonialsParams struct {
	Limit  int64
	Offset int64
}

// ListTestimonials returns testimonials newest first.
func (q *Queries) ListTestimonials(ctx context.Context, arg ListTestimonialsParams) ([]model.Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listTestimonials, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Testimonial{}
	for rows.Next() {
		var ts model.Testimonial
		if err := rows.Scan(&ts.ID, &ts.Author, &ts.Text, &ts.ImageURL, &ts.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, ts)
	}
	return items, rows.Err()
}

const countTestimonials = `SELECT COUNT(*) FROM testimonials`

// CountTestimonials returns the total number of testimonials.
func (q *Queries) CountTestimonials(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countTestimonials).Scan(&count)
	return count, err
}

const updateTestimonial = `
UPDATE testimonials SET author = ?, text = ?, image_url = ?
WHERE id = ?
RETURNING ` + testimonialColumns

// UpdateTestimonialParams holds the full set of mutable testimonial fields.
type UpdateTestimonialParams struct {
	ID       int64
	Author   string
	Text     string
	ImageURL sql.NullString
}

// UpdateTestimonial replaces the mutable fields of a testimonial.
func (q *Queries) UpdateTestimonial(ctx context.Context, arg UpdateTestimonialParams) (model.Testimonial, error) {
	row := q.db.QueryRowContext(ctx, updateTestimonial, arg.Author, arg.Text, arg.ImageURL, arg.ID)
	return scanTestimonial(row)
}

const deleteTestimonial = `DELETE FROM testimonials WHERE id = ?`

// DeleteTestimonial removes a testimonial by ID.
func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteTestimonial, id)
	return err
}

func scanTestimonial(row *sql.Row) (model.Testimonial, error) {
	var ts model.Testimonial
	err := row.Scan(&ts.ID, &ts.Author, &ts.Text, &ts.ImageURL, &ts.CreatedAt)
	return ts, err
}
