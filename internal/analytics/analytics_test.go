package analytics

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/renacermascotas/renacer-go/internal/store"
)

const desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "renacer-analytics-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})
	return db
}

func TestShouldTrack(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{"GET", "/", true},
		{"GET", "/nosotros", true},
		{"POST", "/", false},
		{"GET", "/api/v1/posts", false},
		{"GET", "/uploads/abc.jpg", false},
		{"GET", "/health", false},
		{"GET", "/favicon.ico", false},
		{"GET", "/styles/main.css", false},
		{"GET", "/robots.txt", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.path, nil)
		if got := shouldTrack(r); got != tt.want {
			t.Errorf("shouldTrack(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		ip   string
		want string
	}{
		{"192.168.1.100", "192.168.1.0"},
		{"203.0.113.7", "203.0.113.0"},
		{"not-an-ip", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := anonymizeIP(tt.ip); got != tt.want {
			t.Errorf("anonymizeIP(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}

	// IPv6 keeps only the /48 prefix.
	got := anonymizeIP("2001:db8:abcd:1234:5678:9abc:def0:1234")
	if !strings.HasPrefix(got, "2001:db8:abcd:") {
		t.Errorf("anonymizeIP IPv6 = %q, want 2001:db8:abcd:: prefix", got)
	}
	if strings.Contains(got, "9abc") {
		t.Errorf("anonymizeIP IPv6 = %q, low bits not masked", got)
	}
}

func TestVisitorHash(t *testing.T) {
	salt := "fixed-salt"

	h1 := visitorHash(salt, "203.0.113.7", desktopUA)
	h2 := visitorHash(salt, "203.0.113.99", desktopUA)
	if len(h1) != 16 {
		t.Errorf("hash length = %d, want 16", len(h1))
	}
	// Same /24, same UA, same day: identical fingerprint.
	if h1 != h2 {
		t.Errorf("hashes differ within one /24: %q vs %q", h1, h2)
	}

	h3 := visitorHash(salt, "198.51.100.1", desktopUA)
	if h1 == h3 {
		t.Error("hashes match across different networks")
	}

	if visitorHash("other-salt", "203.0.113.7", desktopUA) == h1 {
		t.Error("hash unchanged under a different salt")
	}
}

func TestSaltSource_RotatesDaily(t *testing.T) {
	defer func() { timeNow = time.Now }()

	var src saltSource
	timeNow = func() time.Time { return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC) }
	day1 := src.current()
	if day1 == "" {
		t.Fatal("empty salt")
	}
	if src.current() != day1 {
		t.Error("salt changed within the same day")
	}

	timeNow = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }
	if src.current() == day1 {
		t.Error("salt did not rotate at the day boundary")
	}
}

func TestParseUserAgent(t *testing.T) {
	ua := parseUserAgent(desktopUA)
	if ua.DeviceType != "desktop" {
		t.Errorf("DeviceType = %q, want desktop", ua.DeviceType)
	}
	if ua.Browser != "Chrome" {
		t.Errorf("Browser = %q, want Chrome", ua.Browser)
	}

	bot := parseUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	if bot.DeviceType != "bot" {
		t.Errorf("bot DeviceType = %q, want bot", bot.DeviceType)
	}

	empty := parseUserAgent("")
	if empty.Browser != "Unknown" {
		t.Errorf("empty Browser = %q, want Unknown", empty.Browser)
	}
}

func TestTrackerMiddleware_RecordsView(t *testing.T) {
	db := testDB(t)
	tracker := NewTracker(db, nil)

	handler := tracker.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/galeria", nil)
	req.Header.Set("User-Agent", desktopUA)
	req.RemoteAddr = "203.0.113.7:54321"
	handler.ServeHTTP(httptest.NewRecorder(), req)
	tracker.Wait()

	count, err := store.New(db).CountPageViewsSince(context.Background(), time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("CountPageViewsSince: %v", err)
	}
	if count != 1 {
		t.Errorf("recorded views = %d, want 1", count)
	}
}

func TestTrackerMiddleware_SkipsBotsAndErrors(t *testing.T) {
	db := testDB(t)
	tracker := NewTracker(db, nil)

	notFound := tracker.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	req := httptest.NewRequest("GET", "/missing", nil)
	req.Header.Set("User-Agent", desktopUA)
	notFound.ServeHTTP(httptest.NewRecorder(), req)

	ok := tracker.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	botReq := httptest.NewRequest("GET", "/", nil)
	botReq.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1)")
	ok.ServeHTTP(httptest.NewRecorder(), botReq)
	tracker.Wait()

	count, err := store.New(db).CountPageViewsSince(context.Background(), time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("CountPageViewsSince: %v", err)
	}
	if count != 0 {
		t.Errorf("recorded views = %d, want 0", count)
	}
}

func TestSummarize(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	ctx := context.Background()

	now := time.Now().UTC()
	views := []store.InsertPageViewParams{
		{Path: "/", VisitorHash: "v1", Country: "CO", Device: "desktop", Browser: "Chrome", CreatedAt: now},
		{Path: "/", VisitorHash: "v2", Country: "CO", Device: "mobile", Browser: "Safari", CreatedAt: now},
		{Path: "/galeria", VisitorHash: "v1", Country: "MX", Device: "desktop", Browser: "Chrome", CreatedAt: now},
	}
	for _, v := range views {
		if err := q.InsertPageView(ctx, v); err != nil {
			t.Fatalf("InsertPageView: %v", err)
		}
	}

	svc := NewService(db)
	if err := svc.AggregateDay(ctx, now.UTC()); err != nil {
		t.Fatalf("AggregateDay: %v", err)
	}

	summary, err := svc.Summarize(ctx, 7)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.TotalViews != 3 {
		t.Errorf("TotalViews = %d, want 3", summary.TotalViews)
	}
	if summary.UniqueVisitors != 2 {
		t.Errorf("UniqueVisitors = %d, want 2", summary.UniqueVisitors)
	}
	if len(summary.TopPages) == 0 || summary.TopPages[0].Label != "/" {
		t.Errorf("TopPages = %+v, want / first", summary.TopPages)
	}
	if len(summary.TopCountries) == 0 || summary.TopCountries[0].Label != "CO" {
		t.Errorf("TopCountries = %+v, want CO first", summary.TopCountries)
	}
	if len(summary.ViewsByDay) != 1 {
		t.Errorf("ViewsByDay = %+v, want one day", summary.ViewsByDay)
	}
}

func TestCleanupRaw(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	ctx := context.Background()

	old := store.InsertPageViewParams{
		Path: "/", VisitorHash: "v1", Device: "desktop", Browser: "Chrome",
		CreatedAt: time.Now().Add(-10 * 24 * time.Hour),
	}
	if err := q.InsertPageView(ctx, old); err != nil {
		t.Fatalf("InsertPageView: %v", err)
	}

	removed, err := NewService(db).CleanupRaw(ctx, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupRaw: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}
