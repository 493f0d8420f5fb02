// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// Rate limit windows for the public API and the upload endpoint.
const (
	APIRateLimit     = 100
	APIRateWindow    = 15 * time.Minute
	UploadRateLimit  = 10
	UploadRateWindow = time.Hour
)

// RateLimiter returns per-IP rate limiting middleware with a JSON 429 response.
func RateLimiter(requestLimit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestLimit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit exceeded",
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded",
				"Too many requests, please try again later", nil)
		}),
	)
}

// APIRateLimiter limits general API traffic per client IP.
func APIRateLimiter() func(http.Handler) http.Handler {
	return RateLimiter(APIRateLimit, APIRateWindow)
}

// UploadRateLimiter limits media uploads per client IP. Uploads are far
// more expensive than reads, so the window is much tighter.
func UploadRateLimiter() func(http.Handler) http.Handler {
	return RateLimiter(UploadRateLimit, UploadRateWindow)
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Real-IP header (set by reverse proxies)
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	// Check X-Forwarded-For header
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// X-Forwarded-For can contain multiple IPs; take the first one
		return ip
	}

	// Fall back to RemoteAddr
	return r.RemoteAddr
}
