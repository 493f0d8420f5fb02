// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/renacermascotas/renacer-go/internal/model"
)

const partnerColumns = `id, name, department, city, logo_url, website, phone, description, created_at, updated_at`

const createPartner = `
INSERT INTO partners (name, department, city, logo_url, website, phone, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + partnerColumns

// CreatePartnerParams holds the fields needed to create a partner.
type CreatePartnerParams struct {
	Name        string
	Department  string
	City        string
	LogoURL     sql.NullString
	Website     sql.NullString
	Phone       sql.NullString
	Description sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePartner inserts a new partner and returns the stored row.
func (q *Queries) CreatePartner(ctx context.Context, arg CreatePartnerParams) (model.Partner, error) {
	row := q.db.QueryRowContext(ctx, createPartner,
		arg.Name, arg.Department, arg.City, arg.LogoURL, arg.Website, arg.Phone,
		arg.Description, arg.CreatedAt, arg.UpdatedAt)
	return scanPartner(row)
}

const getPartnerByID = `SELECT ` + partnerColumns + ` FROM partners WHERE id = ?`

// GetPartnerByID returns the partner with the given ID.
func (q *Queries) GetPartnerByID(ctx context.Context, id int64) (model.Partner, error) {
	return scanPartner(q.db.QueryRowContext(ctx, getPartnerByID, id))
}

// Partners are browsed geographically, so listing orders by location first.
const listPartners = `
SELECT ` + partnerColumns + ` FROM partners
ORDER BY department ASC, city ASC, name ASC
LIMIT ? OFFSET ?
`

// ListPartnersParams holds pagination bounds for listing partners.
type ListPartnersParams struct {
	Limit  int64
	Offset int64
}

// ListPartners returns partners ordered by department, city and name.
func (q *Queries) ListPartners(ctx context.Context, arg ListPartnersParams) ([]model.Partner, error) {
	rows, err := q.db.QueryContext(ctx, listPartners, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPartners(rows)
}

const countPartners = `SELECT COUNT(*) FROM partners`

// CountPartners returns the total number of partners.
func (q *Queries) CountPartners(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPartners).Scan(&count)
	return count, err
}

const searchPartners = `
SELECT ` + partnerColumns + ` FROM partners
WHERE LOWER(name) LIKE LOWER(?) ESCAPE '\'
ORDER BY department ASC, city ASC, name ASC
LIMIT ? OFFSET ?
`

// SearchPartnersParams holds a name filter plus pagination bounds.
type SearchPartnersParams struct {
	Query  string
	Limit  int64
	Offset int64
}

// SearchPartners returns partners whose name contains the query.
func (q *Queries) SearchPartners(ctx context.Context, arg SearchPartnersParams) ([]model.Partner, error) {
	rows, err := q.db.QueryContext(ctx, searchPartners, likePattern(arg.Query), arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPartners(rows)
}

const countSearchPartners = `SELECT COUNT(*) FROM partners WHERE LOWER(name) LIKE LOWER(?) ESCAPE '\'`

// CountSearchPartners returns the number of partners whose name contains the query.
func (q *Queries) CountSearchPartners(ctx context.Context, query string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSearchPartners, likePattern(query)).Scan(&count)
	return count, err
}

const updatePartner = `
UPDATE partners SET name = ?, department = ?, city = ?, logo_url = ?, website = ?, phone = ?, description = ?, updated_at = ?
WHERE id = ?
RETURNING ` + partnerColumns

// UpdatePartnerParams holds the full set of mutable partner fields.
type UpdatePartnerParams struct {
	ID          int64
	Name        string
	Department  string
	City        string
	LogoURL     sql.NullString
	Website     sql.NullString
	Phone       sql.NullString
	Description sql.NullString
	UpdatedAt   time.Time
}

// UpdatePartner replaces the mutable fields of a partner and returns the stored row.
func (q *Queries) UpdatePartner(ctx context.Context, arg UpdatePartnerParams) (model.Partner, error) {
	row := q.db.QueryRowContext(ctx, updatePartner,
		arg.Name, arg.Department, arg.City, arg.LogoURL, arg.Website, arg.Phone,
		arg.Description, arg.UpdatedAt, arg.ID)
	return scanPartner(row)
}

const deletePartner = `DELETE FROM partners WHERE id = ?`

// DeletePartner removes a partner by ID.
func (q *Queries) DeletePartner(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePartner, id)
	return err
}

func scanPartner(row *sql.Row) (model.Partner, error) {
	var p model.Partner
	err := row.Scan(&p.ID, &p.Name, &p.Department, &p.City, &p.LogoURL, &p.Website,
		&p.Phone, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectPartners(rows *sql.Rows) ([]model.Partner, error) {
	partners := []model.Partner{}
	for rows.Next() {
		var p model.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Department, &p.City, &p.LogoURL, &p.Website,
			&p.Phone, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}
