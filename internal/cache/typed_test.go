package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testPartner struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	City       string `json:"city"`
}

func TestTypedCache_SetAndGet(t *testing.T) {
	memCache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = memCache.Close() }()

	tc := NewTypedCache[testPartner](memCache, time.Hour)
	ctx := context.Background()

	partner := &testPartner{ID: 7, Name: "Veterinaria San Roque", Department: "La Paz", City: "El Alto"}
	if err := tc.Set(ctx, ItemKey("partners", partner.ID), partner); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := tc.Get(ctx, ItemKey("partners", partner.ID))
	if !found {
		t.Fatal("expected cached partner")
	}
	if got.Name != partner.Name || got.Department != partner.Department || got.City != partner.City {
		t.Errorf("got %+v, want %+v", got, partner)
	}
}

func TestTypedCache_Miss(t *testing.T) {
	memCache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = memCache.Close() }()

	tc := NewTypedCache[testPartner](memCache, time.Hour)
	if _, found := tc.Get(context.Background(), ItemKey("partners", 404)); found {
		t.Error("expected a miss for an unwritten key")
	}
}

func TestTypedCache_CorruptEntryReadsAsMiss(t *testing.T) {
	memCache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = memCache.Close() }()

	ctx := context.Background()
	if err := memCache.Set(ctx, "item:partners:1", []byte("{not json"), 0); err != nil {
		t.Fatalf("raw Set failed: %v", err)
	}

	tc := NewTypedCache[testPartner](memCache, time.Hour)
	if _, found := tc.Get(ctx, "item:partners:1"); found {
		t.Error("undecodable entry should read as a miss")
	}
}

func TestTypedCache_Delete(t *testing.T) {
	memCache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = memCache.Close() }()

	tc := NewTypedCache[testPartner](memCache, time.Hour)
	ctx := context.Background()

	key := ItemKey("partners", 2)
	if err := tc.Set(ctx, key, &testPartner{ID: 2, Name: "Huellitas"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := tc.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := tc.Get(ctx, key); found {
		t.Error("expected key to be gone after Delete")
	}
}

func TestTypedCache_SetWithTTLExpires(t *testing.T) {
	memCache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = memCache.Close() }()

	tc := NewTypedCache[testPartner](memCache, time.Hour)
	ctx := context.Background()

	key := ItemKey("partners", 3)
	if err := tc.SetWithTTL(ctx, key, &testPartner{ID: 3}, 20*time.Millisecond); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}
	if _, found := tc.Get(ctx, key); !found {
		t.Fatal("expected entry before expiry")
	}

	time.Sleep(40 * time.Millisecond)
	if _, found := tc.Get(ctx, key); found {
		t.Error("expected entry to expire")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	memCache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = memCache.Close() }()

	tc := NewTypedCache[testPartner](memCache, time.Hour)
	ctx := context.Background()

	calls := 0
	fetch := func() (*testPartner, error) {
		calls++
		return &testPartner{ID: 9, Name: "Refugio Esperanza"}, nil
	}

	key := ItemKey("partners", 9)
	first, err := tc.GetOrSet(ctx, key, fetch)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	second, err := tc.GetOrSet(ctx, key, fetch)
	if err != nil {
		t.Fatalf("GetOrSet failed on warm read: %v", err)
	}

	if calls != 1 {
		t.Errorf("fetch ran %d times, want 1", calls)
	}
	if first.Name != second.Name {
		t.Errorf("warm read returned %q, want %q", second.Name, first.Name)
	}
}

func TestTypedCache_GetOrSetErrorNotCached(t *testing.T) {
	memCache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = memCache.Close() }()

	tc := NewTypedCache[testPartner](memCache, time.Hour)
	ctx := context.Background()

	failures := 0
	key := ItemKey("partners", 11)

	_, err := tc.GetOrSet(ctx, key, func() (*testPartner, error) {
		failures++
		return nil, errors.New("row not found")
	})
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}

	got, err := tc.GetOrSet(ctx, key, func() (*testPartner, error) {
		return &testPartner{ID: 11, Name: "Patitas Felices"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrSet after failure: %v", err)
	}
	if got.Name != "Patitas Felices" {
		t.Errorf("got %q, want the freshly computed value", got.Name)
	}
	if failures != 1 {
		t.Errorf("failing fetch ran %d times, want 1", failures)
	}
}
