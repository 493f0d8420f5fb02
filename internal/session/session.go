// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session wires scs session management to the SQLite database.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Lifetime is how long an admin session stays valid after login.
const Lifetime = 24 * time.Hour

// New returns a session manager backed by the sessions table in db. In
// production the cookie uses the __Host- prefix, which forces Secure,
// Path=/ and no Domain attribute.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = Lifetime

	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	if isDev {
		// Plain HTTP on localhost cannot carry Secure cookies.
		sm.Cookie.Secure = false
	} else {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Secure = true
	}

	return sm
}
