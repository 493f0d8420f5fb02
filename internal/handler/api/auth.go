// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/renacermascotas/renacer-go/internal/auth"
	"github.com/renacermascotas/renacer-go/internal/middleware"
	"github.com/renacermascotas/renacer-go/internal/model"
)

// invalidCredentialsMessage is returned for every credential failure:
// unknown user, wrong password and inactive account are indistinguishable
// to the caller.
const invalidCredentialsMessage = "Invalid credentials"

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents the authenticated user in API responses.
type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func userResponse(u model.User) UserResponse {
	resp := UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
	if u.LastLoginAt.Valid {
		t := u.LastLoginAt.Time
		resp.LastLoginAt = &t
	}
	return resp
}

// Login authenticates a user and establishes a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteValidationError(w, map[string]string{
			"username": "Username and password are required",
		})
		return
	}

	if locked, remaining := h.loginProt.IsAccountLocked(req.Username); locked {
		slog.Warn("login attempt on locked account", "username", req.Username, "remaining", remaining)
		WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded",
			"Too many failed attempts, try again later", nil)
		return
	}

	user, err := h.queries.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("login lookup failed", "error", err)
		}
		// Burn a verification anyway so unknown users cost the same
		// as wrong passwords.
		_, _ = auth.CheckPassword(req.Password, auth.DummyHash)
		h.recordFailure(r, req.Username)
		WriteUnauthorized(w, invalidCredentialsMessage)
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.recordFailure(r, req.Username)
		WriteUnauthorized(w, invalidCredentialsMessage)
		return
	}

	if !user.IsActive {
		h.recordFailure(r, req.Username)
		_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning,
			"Login attempt on inactive account: "+user.Username, &user.ID, nil)
		WriteUnauthorized(w, invalidCredentialsMessage)
		return
	}

	// Upgrade the stored hash when parameters have changed.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(ctx, user.ID, newHash); err != nil {
				slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
			}
		}
	}

	// Renew the session token on privilege change.
	if err := h.sessions.RenewToken(ctx); err != nil {
		slog.Error("session renewal failed", "error", err)
		WriteInternalError(w, "Failed to establish session")
		return
	}
	h.sessions.Put(ctx, middleware.SessionKeyUserID, user.ID)

	now := time.Now()
	if err := h.queries.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		slog.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = sql.NullTime{Time: now, Valid: true}

	h.loginProt.RecordSuccessfulLogin(req.Username)
	_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User logged in: "+user.Username, &user.ID, nil)

	WriteSuccess(w, userResponse(user), nil)
}

// recordFailure tracks a failed login for lockout accounting.
func (h *Handler) recordFailure(r *http.Request, username string) {
	locked, duration := h.loginProt.RecordFailedAttempt(username)
	if locked {
		slog.Warn("account locked after repeated failures", "username", username, "duration", duration)
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Account locked after repeated login failures: "+username, nil, map[string]any{
				"lockout_minutes": int(duration.Minutes()),
			})
	}
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := h.sessions.GetInt64(ctx, middleware.SessionKeyUserID)

	if err := h.sessions.Destroy(ctx); err != nil {
		slog.Error("session destroy failed", "error", err)
		WriteInternalError(w, "Failed to end session")
		return
	}

	if userID != 0 {
		_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User logged out", &userID, nil)
	}
	WriteJSON(w, http.StatusOK, Response{Data: map[string]string{"status": "logged_out"}})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, userResponse(*user), nil)
}
