// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/renacermascotas/renacer-go/internal/auth"
	"github.com/renacermascotas/renacer-go/internal/middleware"
	"github.com/renacermascotas/renacer-go/internal/model"
	"github.com/renacermascotas/renacer-go/internal/store"
)

// minPasswordLength applies to admin-set passwords; login accepts whatever
// hash is stored.
const minPasswordLength = 8

// AdminUserResponse represents an account in the admin user listing. Unlike
// UserResponse it exposes the activation flag.
type AdminUserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func adminUserResponse(u model.User) AdminUserResponse {
	resp := AdminUserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.LastLoginAt.Valid {
		t := u.LastLoginAt.Time
		resp.LastLoginAt = &t
	}
	return resp
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		slog.Error("listing users failed", "error", err)
		WriteInternalError(w, "Failed to list users")
		return
	}
	out := make([]AdminUserResponse, len(users))
	for i, u := range users {
		out[i] = adminUserResponse(u)
	}
	WriteSuccess(w, out, nil)
}

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

func (req *CreateUserRequest) validate() map[string]string {
	fieldErrors := map[string]string{}
	if req.Username == "" {
		fieldErrors["username"] = "Username is required"
	}
	if req.Email == "" {
		fieldErrors["email"] = "Email is required"
	}
	if len(req.Password) < minPasswordLength {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}
	if !model.ValidRole(req.Role) {
		fieldErrors["role"] = "Role must be admin or editor"
	}
	return fieldErrors
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := req.validate(); len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	now := time.Now()
	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if field := uniqueViolationField(err); field != "" {
			WriteValidationError(w, map[string]string{field: "Already in use"})
			return
		}
		slog.Error("creating user failed", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	actorID := middleware.GetUserIDPtr(r)
	_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User created: "+user.Username, actorID, map[string]any{
		"user_id": user.ID,
		"role":    user.Role,
	})
	WriteCreated(w, adminUserResponse(user))
}

// UpdateUserRequest is the request body for PUT /users/{id}. Absent fields
// keep their stored values.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (req *UpdateUserRequest) validate() map[string]string {
	fieldErrors := map[string]string{}
	if req.Username != nil && *req.Username == "" {
		fieldErrors["username"] = "Username cannot be empty"
	}
	if req.Email != nil && *req.Email == "" {
		fieldErrors["email"] = "Email cannot be empty"
	}
	if req.Role != nil && !model.ValidRole(*req.Role) {
		fieldErrors["role"] = "Role must be admin or editor"
	}
	return fieldErrors
}

// UpdateUser handles PUT /users/{id}. Deactivating or demoting the calling
// admin's own account is rejected so a lone admin cannot lock everyone out.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := req.validate(); len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	existing, err := h.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
			return
		}
		slog.Error("loading user failed", "user_id", id, "error", err)
		WriteInternalError(w, "Failed to update user")
		return
	}

	if actor := middleware.GetUser(r); actor != nil && actor.ID == id {
		if req.IsActive != nil && !*req.IsActive {
			WriteValidationError(w, map[string]string{"is_active": "You cannot deactivate your own account"})
			return
		}
		if req.Role != nil && *req.Role != model.RoleAdmin {
			WriteValidationError(w, map[string]string{"role": "You cannot demote your own account"})
			return
		}
	}

	params := store.UpdateUserParams{
		ID:       existing.ID,
		Username: existing.Username,
		Email:    existing.Email,
		Role:     existing.Role,
		IsActive: existing.IsActive,
	}
	if req.Username != nil {
		params.Username = *req.Username
	}
	if req.Email != nil {
		params.Email = *req.Email
	}
	if req.Role != nil {
		params.Role = *req.Role
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	user, err := h.queries.UpdateUser(ctx, params)
	if err != nil {
		if field := uniqueViolationField(err); field != "" {
			WriteValidationError(w, map[string]string{field: "Already in use"})
			return
		}
		slog.Error("updating user failed", "user_id", id, "error", err)
		WriteInternalError(w, "Failed to update user")
		return
	}

	actorID := middleware.GetUserIDPtr(r)
	if req.IsActive != nil && existing.IsActive != user.IsActive {
		verb := "deactivated"
		if user.IsActive {
			verb = "activated"
		}
		_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User "+verb+": "+user.Username, actorID, map[string]any{
			"user_id": user.ID,
		})
	} else {
		_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User updated: "+user.Username, actorID, map[string]any{
			"user_id": user.ID,
		})
	}
	WriteSuccess(w, adminUserResponse(user), nil)
}

// ResetPasswordRequest is the request body for PUT /users/{id}/password.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetUserPassword handles PUT /users/{id}/password.
func (h *Handler) ResetUserPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if len(req.Password) < minPasswordLength {
		WriteValidationError(w, map[string]string{"password": "Password must be at least 8 characters"})
		return
	}

	user, err := h.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
			return
		}
		slog.Error("loading user failed", "user_id", id, "error", err)
		WriteInternalError(w, "Failed to reset password")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		WriteInternalError(w, "Failed to reset password")
		return
	}
	if err := h.queries.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		slog.Error("password update failed", "user_id", user.ID, "error", err)
		WriteInternalError(w, "Failed to reset password")
		return
	}

	_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning, "Password reset: "+user.Username,
		middleware.GetUserIDPtr(r), map[string]any{"user_id": user.ID})
	WriteJSON(w, http.StatusOK, Response{Data: map[string]string{"status": "password_reset"}})
}

// uniqueViolationField maps a sqlite unique-constraint error on the users
// table to the offending request field, or "" when err is something else.
func uniqueViolationField(err error) string {
	if err == nil || !strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ""
	}
	if strings.Contains(err.Error(), "users.email") {
		return "email"
	}
	return "username"
}
