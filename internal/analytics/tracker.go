// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/renacermascotas/renacer-go/internal/geoip"
	"github.com/renacermascotas/renacer-go/internal/store"
)

// Tracker records anonymized page views for public traffic.
type Tracker struct {
	queries *store.Queries
	geo     *geoip.Lookup
	salt    saltSource
	wg      sync.WaitGroup
}

// NewTracker creates a Tracker. The GeoIP lookup may be nil or disabled,
// in which case views are recorded without a country.
func NewTracker(db *sql.DB, geo *geoip.Lookup) *Tracker {
	return &Tracker{
		queries: store.New(db),
		geo:     geo,
	}
}

// Middleware tracks successful GET responses on trackable paths. Recording
// happens after the response is written so tracking never delays a request.
func (t *Tracker) Middleware() func(http.Handler) http.Handler {
	return t.middleware(shouldTrack)
}

// ReadTracking tracks every successful GET routed through it, bypassing
// the global skip lists. Mounted on the public content read routes, which
// live under the API prefix.
func (t *Tracker) ReadTracking() func(http.Handler) http.Handler {
	return t.middleware(func(r *http.Request) bool {
		return r.Method == http.MethodGet
	})
}

func (t *Tracker) middleware(trackable func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !trackable(r) {
				next.ServeHTTP(w, r)
				return
			}

			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			if rw.status == http.StatusOK {
				t.wg.Add(1)
				go func(path, ip, userAgent string) {
					defer t.wg.Done()
					t.track(path, ip, userAgent)
				}(r.URL.Path, realIP(r), r.UserAgent())
			}
		})
	}
}

// Wait blocks until all in-flight track goroutines finish. Used on shutdown
// and in tests.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// track records one page view.
func (t *Tracker) track(path, ip, userAgent string) {
	ua := parseUserAgent(userAgent)
	if ua.DeviceType == "bot" {
		return
	}

	country := ""
	if t.geo != nil {
		country = t.geo.LookupCountry(ip)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := t.queries.InsertPageView(ctx, store.InsertPageViewParams{
		Path:        path,
		VisitorHash: visitorHash(t.salt.current(), ip, userAgent),
		Country:     country,
		Device:      ua.DeviceType,
		Browser:     ua.Browser,
		CreatedAt:   timeNow().UTC(),
	})
	if err != nil {
		slog.Error("failed to record page view", "path", path, "error", err)
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.status = http.StatusOK
		rw.wroteHeader = true
	}
	return rw.ResponseWriter.Write(b)
}

// skippedPrefixes are paths never counted as page views.
var skippedPrefixes = []string{
	"/api/",
	"/uploads/",
	"/health",
	"/favicon.",
	"/robots.txt",
	"/.well-known/",
}

// skippedExtensions cover static assets served from the site root.
var skippedExtensions = []string{
	".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".ico",
	".woff", ".woff2", ".ttf",
	".xml", ".json", ".txt", ".pdf",
	".mp4", ".webm", ".mp3",
}

// shouldTrack determines if a request counts as a page view.
func shouldTrack(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}

	path := r.URL.Path
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	pathLower := strings.ToLower(path)
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(pathLower, ext) {
			return false
		}
	}
	return true
}

// realIP extracts the client IP, respecting reverse-proxy headers.
func realIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx > 0 {
		ip = ip[:idx]
	}
	ip = strings.TrimPrefix(ip, "[")
	return strings.TrimSuffix(ip, "]")
}
