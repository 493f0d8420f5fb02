// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/renacermascotas/renacer-go/internal/model"
)

const createUser = `
INSERT INTO users (username, email, password_hash, role, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, username, email, password_hash, role, is_active, created_at, updated_at, last_login_at
`

// CreateUserParams holds the fields needed to create a user.
type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a new user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Username, arg.Email, arg.PasswordHash, arg.Role, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

const listUsers = `
SELECT id, username, email, password_hash, role, is_active, created_at, updated_at, last_login_at
FROM users ORDER BY username ASC
`

// ListUsers returns all accounts ordered by username.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
			&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const updateUser = `
UPDATE users SET username = ?, email = ?, role = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING id, username, email, password_hash, role, is_active, created_at, updated_at, last_login_at
`

// UpdateUserParams holds the full replacement row for UpdateUser. The
// handler builds it from the stored user plus the supplied fields.
type UpdateUserParams struct {
	ID       int64
	Username string
	Email    string
	Role     string
	IsActive bool
}

// UpdateUser replaces a user's profile fields and returns the stored row.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, updateUser,
		arg.Username, arg.Email, arg.Role, arg.IsActive, time.Now(), arg.ID)
	return scanUser(row)
}

const getUserByID = `
SELECT id, username, email, password_hash, role, is_active, created_at, updated_at, last_login_at
FROM users WHERE id = ?
`

// GetUserByID returns the user with the given ID.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByUsername = `
SELECT id, username, email, password_hash, role, is_active, created_at, updated_at, last_login_at
FROM users WHERE username = ?
`

// GetUserByUsername returns the user with the given username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const updateUserPassword = `
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
`

// UpdateUserPassword replaces a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, passwordHash, time.Now(), id)
	return err
}

const updateUserLastLogin = `
UPDATE users SET last_login_at = ? WHERE id = ?
`

// UpdateUserLastLogin records a successful login time.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx, updateUserLastLogin, at, id)
	return err
}

const setUserActive = `
UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?
`

// SetUserActive activates or deactivates an account. Deactivated users
// lose access on their next request.
func (q *Queries) SetUserActive(ctx context.Context, id int64, active bool) error {
	_, err := q.db.ExecContext(ctx, setUserActive, active, time.Now(), id)
	return err
}

const countUsers = `SELECT COUNT(*) FROM users`

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}
