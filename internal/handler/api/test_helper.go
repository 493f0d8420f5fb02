// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/renacermascotas/renacer-go/internal/auth"
	"github.com/renacermascotas/renacer-go/internal/cache"
	"github.com/renacermascotas/renacer-go/internal/middleware"
	"github.com/renacermascotas/renacer-go/internal/model"
	"github.com/renacermascotas/renacer-go/internal/service"
	"github.com/renacermascotas/renacer-go/internal/session"
	"github.com/renacermascotas/renacer-go/internal/store"

	"github.com/renacermascotas/renacer-go/internal/analytics"
)

// testEnv wires the full API stack against a temporary SQLite database
// and serves it over httptest with a cookie-aware client.
type testEnv struct {
	t       *testing.T
	db      *sql.DB
	queries *store.Queries
	content *service.ContentService
	server  *httptest.Server
	client  *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	f, err := os.CreateTemp("", "renacer-api-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := store.NewDB(f.Name())
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating db: %v", err)
	}

	uploadDir := t.TempDir()
	events := service.NewEventService(db)
	media, err := service.NewMediaService(db, events, uploadDir, "http://test.local")
	if err != nil {
		t.Fatalf("creating media service: %v", err)
	}
	content := service.NewContentService(db, cache.NewSimpleMemoryCache(time.Minute), media, events, 0)

	sessions := session.New(db, true)
	loginProt := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 5,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	h := NewHandler(Deps{
		DB:        db,
		Sessions:  sessions,
		Content:   content,
		Media:     media,
		Events:    events,
		Analytics: analytics.NewService(db),
		LoginProt: loginProt,
	})

	srv := httptest.NewServer(sessions.LoadAndSave(h.Routes()))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}

	return &testEnv{
		t:       t,
		db:      db,
		queries: store.New(db),
		content: content,
		server:  srv,
		client:  &http.Client{Jar: jar},
	}
}

// createUser inserts a user with a real argon2id password hash.
func (e *testEnv) createUser(username, password, role string, active bool) model.User {
	e.t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		e.t.Fatalf("hashing password: %v", err)
	}
	now := time.Now()
	user, err := e.queries.CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		Email:        username + "@test.local",
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		e.t.Fatalf("creating user: %v", err)
	}
	return user
}

// request performs an HTTP request against the test server and returns
// the status code and decoded body.
func (e *testEnv) request(method, path string, body any) (int, map[string]any) {
	e.t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshaling request body: %v", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reqBody)
	if err != nil {
		e.t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		e.t.Fatalf("reading response body: %v", err)
	}

	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			e.t.Fatalf("decoding response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// login authenticates through the API so the client's cookie jar holds
// a real session.
func (e *testEnv) login(username, password string) (int, map[string]any) {
	e.t.Helper()
	return e.request(http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
}

// loginAsEditor creates an active editor account and signs in.
func (e *testEnv) loginAsEditor() model.User {
	e.t.Helper()
	user := e.createUser("editor", "correct-horse-battery", model.RoleEditor, true)
	status, _ := e.login("editor", "correct-horse-battery")
	if status != http.StatusOK {
		e.t.Fatalf("editor login returned %d", status)
	}
	return user
}

// loginAsAdmin creates an active admin account and signs in.
func (e *testEnv) loginAsAdmin() model.User {
	e.t.Helper()
	user := e.createUser("admin", "correct-horse-battery", model.RoleAdmin, true)
	status, _ := e.login("admin", "correct-horse-battery")
	if status != http.StatusOK {
		e.t.Fatalf("admin login returned %d", status)
	}
	return user
}

// apiPath joins a collection base path with a numeric ID decoded from JSON.
func apiPath(base string, id float64) string {
	return fmt.Sprintf("%s/%d", base, int64(id))
}

// data extracts the envelope's data object from a decoded response.
func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", body)
	}
	return d
}

// items extracts the envelope's data array from a decoded list response.
func items(t *testing.T, body map[string]any) []any {
	t.Helper()
	d, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("response has no data array: %v", body)
	}
	return d
}

// meta extracts the envelope's meta object from a decoded list response.
func meta(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	m, ok := body["meta"].(map[string]any)
	if !ok {
		t.Fatalf("response has no meta object: %v", body)
	}
	return m
}

// apiError extracts the error object from a decoded error response.
func apiError(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("response has no error object: %v", body)
	}
	return e
}
