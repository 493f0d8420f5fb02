package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := StripTrailingSlash(next)

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantLoc  string
	}{
		{http.MethodGet, "/api/v1/posts/", http.StatusMovedPermanently, "/api/v1/posts"},
		{http.MethodGet, "/api/v1/posts/?page=2", http.StatusMovedPermanently, "/api/v1/posts?page=2"},
		{http.MethodPost, "/api/v1/posts/", http.StatusPermanentRedirect, "/api/v1/posts"},
		{http.MethodGet, "/api/v1/posts", http.StatusOK, ""},
		{http.MethodGet, "/", http.StatusOK, ""},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

		if rr.Code != tt.wantCode {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rr.Code, tt.wantCode)
		}
		if tt.wantLoc != "" {
			if loc := rr.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("%s %s: Location = %q, want %q", tt.method, tt.path, loc, tt.wantLoc)
			}
		}
	}
}
