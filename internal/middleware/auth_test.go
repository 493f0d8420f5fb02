// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/renacermascotas/renacer-go/internal/model"
)

func requestWithUser(user model.User) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(r.Context(), ContextKeyUser, user)
	return r.WithContext(ctx)
}

func TestGetUser(t *testing.T) {
	r := requestWithUser(model.User{ID: 42, Username: "admin", Role: model.RoleAdmin})

	user := GetUser(r)
	if user == nil {
		t.Fatal("expected user in context")
	}
	if user.ID != 42 || user.Username != "admin" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestGetUser_NoUser(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUser(r) != nil {
		t.Error("expected nil user for empty context")
	}
}

func TestGetUserID(t *testing.T) {
	r := requestWithUser(model.User{ID: 7})
	if got := GetUserID(r); got != 7 {
		t.Errorf("GetUserID = %d, want 7", got)
	}

	empty := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetUserID(empty); got != 0 {
		t.Errorf("GetUserID without user = %d, want 0", got)
	}
}

func TestGetUserIDPtr(t *testing.T) {
	r := requestWithUser(model.User{ID: 7})
	ptr := GetUserIDPtr(r)
	if ptr == nil || *ptr != 7 {
		t.Errorf("GetUserIDPtr = %v, want 7", ptr)
	}

	empty := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUserIDPtr(empty) != nil {
		t.Error("GetUserIDPtr without user should be nil")
	}
}

func TestRequireAuth_NoSession(t *testing.T) {
	sm := scs.New()

	called := false
	handler := sm.LoadAndSave(RequireAuth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

	if called {
		t.Error("handler should not run without a session")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if apiErr.Error.Code != "unauthorized" {
		t.Errorf("error code = %q, want unauthorized", apiErr.Error.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		minRole    string
		wantStatus int
	}{
		{"admin passes admin check", &model.User{ID: 1, Role: model.RoleAdmin}, model.RoleAdmin, http.StatusOK},
		{"admin passes editor check", &model.User{ID: 1, Role: model.RoleAdmin}, model.RoleEditor, http.StatusOK},
		{"editor passes editor check", &model.User{ID: 2, Role: model.RoleEditor}, model.RoleEditor, http.StatusOK},
		{"editor fails admin check", &model.User{ID: 2, Role: model.RoleEditor}, model.RoleAdmin, http.StatusForbidden},
		{"unknown role fails", &model.User{ID: 3, Role: "viewer"}, model.RoleEditor, http.StatusForbidden},
		{"no user fails", nil, model.RoleEditor, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.minRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			var r *http.Request
			if tt.user != nil {
				r = requestWithUser(*tt.user)
			} else {
				r = httptest.NewRequest(http.MethodGet, "/", nil)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/gallery", nil))

	if got != "/api/v1/gallery" {
		t.Errorf("GetRequestPath = %q", got)
	}
}

func TestGetRequestPath_Empty(t *testing.T) {
	if got := GetRequestPath(context.Background()); got != "" {
		t.Errorf("GetRequestPath on empty context = %q", got)
	}
}
