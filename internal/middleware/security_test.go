package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithSecurityHeaders(cfg SecurityHeadersConfig, path string) *httptest.ResponseRecorder {
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestSecurityHeaders_Production(t *testing.T) {
	rr := serveWithSecurityHeaders(DefaultSecurityHeadersConfig(false), "/api/v1/status")

	csp := rr.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'none'") {
		t.Errorf("CSP = %q, want a default-src 'none' policy", csp)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}

	hsts := rr.Header().Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=31536000") || !strings.Contains(hsts, "includeSubDomains") {
		t.Errorf("HSTS = %q", hsts)
	}

	for _, h := range []string{"Referrer-Policy", "Permissions-Policy", "X-XSS-Protection"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s header", h)
		}
	}
}

func TestSecurityHeaders_DevelopmentSkipsHSTS(t *testing.T) {
	rr := serveWithSecurityHeaders(DefaultSecurityHeadersConfig(true), "/api/v1/status")

	if hsts := rr.Header().Get("Strict-Transport-Security"); hsts != "" {
		t.Errorf("HSTS set in development: %q", hsts)
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Error("CSP should still be set in development")
	}
}

func TestSecurityHeaders_HSTSPreload(t *testing.T) {
	cfg := SecurityHeadersConfig{
		HSTSMaxAge:            63072000,
		HSTSIncludeSubDomains: true,
		HSTSPreload:           true,
	}
	rr := serveWithSecurityHeaders(cfg, "/")

	hsts := rr.Header().Get("Strict-Transport-Security")
	for _, part := range []string{"max-age=63072000", "includeSubDomains", "preload"} {
		if !strings.Contains(hsts, part) {
			t.Errorf("HSTS = %q, missing %s", hsts, part)
		}
	}
}

func TestSecurityHeaders_ExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/uploads/"}

	if rr := serveWithSecurityHeaders(cfg, "/uploads/abc-foto.png"); rr.Header().Get("Content-Security-Policy") != "" {
		t.Error("excluded path still got security headers")
	}
	if rr := serveWithSecurityHeaders(cfg, "/api/v1/posts"); rr.Header().Get("Content-Security-Policy") == "" {
		t.Error("non-excluded path lost security headers")
	}
}

func TestBuildCSP_OrderAndJoin(t *testing.T) {
	csp := buildCSP(map[string]string{
		"img-src":     "'self' data:",
		"default-src": "'none'",
		"worker-src":  "'none'",
	})

	// Known directives come out in canonical order, unknown ones trail.
	if !strings.HasPrefix(csp, "default-src 'none'; img-src 'self' data:") {
		t.Errorf("csp = %q", csp)
	}
	if !strings.Contains(csp, "worker-src 'none'") {
		t.Errorf("csp = %q, missing unordered directive", csp)
	}
}

func TestIntToStr(t *testing.T) {
	for n, want := range map[int]string{0: "0", 7: "7", 31536000: "31536000", -42: "-42"} {
		if got := intToStr(n); got != want {
			t.Errorf("intToStr(%d) = %q, want %q", n, got, want)
		}
	}
}
