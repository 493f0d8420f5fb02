// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/renacermascotas/renacer-go/internal/model"
)

const agreementColumns = `id, name, department, city, logo_url, address, phone, description, created_at, updated_at`

const createAgreement = `
INSERT INTO agreements (name, department, city, logo_url, address, phone, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + agreementColumns

// CreateAgreementParams holds the fields needed to create an agreement.
type CreateAgreementParams struct {
	Name        string
	Department  string
	City        string
	LogoURL     sql.NullString
	Address     sql.NullString
	Phone       sql.NullString
	Description sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateAgreement inserts a new agreement and returns the stored row.
func (q *Queries) CreateAgreement(ctx context.Context, arg CreateAgreementParams) (model.Agreement, error) {
	row := q.db.QueryRowContext(ctx, createAgreement,
		arg.Name, arg.Department, arg.City, arg.LogoURL, arg.Address, arg.Phone,
		arg.Description, arg.CreatedAt, arg.UpdatedAt)
	return scanAgreement(row)
}

const getAgreementByID = `SELECT ` + agreementColumns + ` FROM agreements WHERE id = ?`

// GetAgreementByID returns the agreement with the given ID.
func (q *Queries) GetAgreementByID(ctx context.Context, id int64) (model.Agreement, error) {
	return scanAgreement(q.db.QueryRowContext(ctx, getAgreementByID, id))
}

const listAgreements = `
SELECT ` + agreementColumns + ` FROM agreements
ORDER BY department ASC, city ASC, name ASC
LIMIT ? OFFSET ?
`

// ListAgreementsParams holds pagination bounds for listing agreements.
type ListAgreementsParams struct {
	Limit  int64
	Offset int64
}

// ListAgreements returns agreements ordered by department, city and name.
func (q *Queries) ListAgreements(ctx context.Context, arg ListAgreementsParams) ([]model.Agreement, error) {
	rows, err := q.db.QueryContext(ctx, listAgreements, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAgreements(rows)
}

const countAgreements = `SELECT COUNT(*) FROM agreements`

// CountAgreements returns the total number of agreements.
func (q *Queries) CountAgreements(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countAgreements).Scan(&count)
	return count, err
}

const searchAgreements = `
SELECT ` + agreementColumns + ` FROM agreements
WHERE LOWER(name) LIKE LOWER(?) ESCAPE '\'
ORDER BY department ASC, city ASC, name ASC
LIMIT ? OFFSET ?
`

// SearchAgreementsParams holds a name filter plus pagination bounds.
type SearchAgreementsParams struct {
	Query  string
	Limit  int64
	Offset int64
}

// SearchAgreements returns agreements whose name contains the query.
func (q *Queries) SearchAgreements(ctx context.Context, arg SearchAgreementsParams) ([]model.Agreement, error) {
	rows, err := q.db.QueryContext(ctx, searchAgreements, likePattern(arg.Query), arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAgreements(rows)
}

const countSearchAgreements = `SELECT COUNT(*) FROM agreements WHERE LOWER(name) LIKE LOWER(?) ESCAPE '\'`

// CountSearchAgreements returns the number of agreements whose name contains the query.
func (q *Queries) CountSearchAgreements(ctx context.Context, query string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSearchAgreements, likePattern(query)).Scan(&count)
	return count, err
}

const updateAgreement = `
UPDATE agreements SET name = ?, department = ?, city = ?, logo_url = ?, address = ?, phone = ?, description = ?, updated_at = ?
WHERE id = ?
RETURNING ` + agreementColumns

// UpdateAgreementParams holds the full set of mutable agreement fields.
type UpdateAgreementParams struct {
	ID          int64
	Name        string
	Department  string
	City        string
	LogoURL     sql.NullString
	Address     sql.NullString
	Phone       sql.NullString
	Description sql.NullString
	UpdatedAt   time.Time
}

// UpdateAgreement replaces the mutable fields of an agreement and returns the stored row.
func (q *Queries) UpdateAgreement(ctx context.Context, arg UpdateAgreementParams) (model.Agreement, error) {
	row := q.db.QueryRowContext(ctx, updateAgreement,
		arg.Name, arg.Department, arg.City, arg.LogoURL, arg.Address, arg.Phone,
		arg.Description, arg.UpdatedAt, arg.ID)
	return scanAgreement(row)
}

const deleteAgreement = `DELETE FROM agreements WHERE id = ?`

// DeleteAgreement removes an agreement by ID.
func (q *Queries) DeleteAgreement(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteAgreement, id)
	return err
}

func scanAgreement(row *sql.Row) (model.Agreement, error) {
	var a model.Agreement
	err := row.Scan(&a.ID, &a.Name, &a.Department, &a.City, &a.LogoURL, &a.Address,
		&a.Phone, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func collectAgreements(rows *sql.Rows) ([]model.Agreement, error) {
	agreements := []model.Agreement{}
	for rows.Next() {
		var a model.Agreement
		if err := rows.Scan(&a.ID, &a.Name, &a.Department, &a.City, &a.LogoURL, &a.Address,
			&a.Phone, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		agreements = append(agreements, a)
	}
	return agreements, rows.Err()
}
