package api

import (
	"net/http"
	"testing"
)

func TestAnalyticsSummary_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.request(http.MethodGet, "/analytics/summary", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if apiError(t, body)["code"] != "unauthorized" {
		t.Errorf("code = %v, want unauthorized", apiError(t, body)["code"])
	}
}

func TestAnalyticsSummary_EditorForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.loginAsEditor()

	status, body := env.request(http.MethodGet, "/analytics/summary", nil)
	if status != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", status)
	}
	if apiError(t, body)["code"] != "forbidden" {
		t.Errorf("code = %v, want forbidden", apiError(t, body)["code"])
	}
}

func TestAnalyticsSummary(t *testing.T) {
	env := newTestEnv(t)
	env.loginAsAdmin()

	status, body := env.request(http.MethodGet, "/analytics/summary", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	d := data(t, body)
	if d["days"] != float64(30) {
		t.Errorf("days = %v, want default 30", d["days"])
	}
	if d["total_views"] != float64(0) {
		t.Errorf("total_views = %v, want 0 on empty db", d["total_views"])
	}

	status, body = env.request(http.MethodGet, "/analytics/summary?days=7", nil)
	if status != http.StatusOK {
		t.Fatalf("days=7 status = %d, want 200", status)
	}
	if data(t, body)["days"] != float64(7) {
		t.Errorf("days = %v, want 7", data(t, body)["days"])
	}

	status, _ = env.request(http.MethodGet, "/analytics/summary?days=0", nil)
	if status != http.StatusBadRequest {
		t.Errorf("days=0 status = %d, want 400", status)
	}
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.request(http.MethodGet, "/status", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if data(t, body)["status"] != "ok" {
		t.Errorf("status field = %v, want ok", data(t, body)["status"])
	}
}
