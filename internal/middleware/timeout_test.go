package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeout_FastHandlerPassesThrough(t *testing.T) {
	wrapped := Timeout(5 * time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":1}}`))
	}))

	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
	if body := rr.Body.String(); body != `{"data":{"id":1}}` {
		t.Errorf("body = %q", body)
	}
}

func TestTimeout_SlowHandlerGetsJSONError(t *testing.T) {
	wrapped := Timeout(50 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	}))

	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}

	var apiErr APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("timeout response is not the JSON error shape: %v", err)
	}
	if apiErr.Error.Code != "internal_error" {
		t.Errorf("error code = %q, want internal_error", apiErr.Error.Code)
	}
}

func TestTimeout_ResponseInFlightIsNotOverwritten(t *testing.T) {
	wrapped := Timeout(50 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Headers go out before the deadline, then the handler stalls.
		w.WriteHeader(http.StatusOK)
		<-r.Context().Done()
	}))

	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d; timeout branch overwrote an in-flight response", rr.Code)
	}
}

func TestTimeoutWriter_SecondWriteHeaderIgnored(t *testing.T) {
	rr := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rr}

	tw.WriteHeader(http.StatusNoContent)
	tw.WriteHeader(http.StatusNotFound)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want the first WriteHeader to win", rr.Code)
	}
}

func TestTimeoutWriter_WriteImpliesOK(t *testing.T) {
	rr := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rr}

	n, err := tw.Write([]byte("body"))
	if err != nil || n != 4 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if !tw.wroteHeader || rr.Code != http.StatusOK {
		t.Errorf("bare Write should mark the header written with 200, got %d", rr.Code)
	}
}
