package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "item:posts:1", []byte(`{"id":1}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := c.Get(ctx, "item:posts:1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != `{"id":1}` {
		t.Errorf("got %s", val)
	}

	has, err := c.Has(ctx, "item:posts:1")
	if err != nil || !has {
		t.Errorf("Has = %v, %v; want true, nil", has, err)
	}

	if err := c.Delete(ctx, "item:posts:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "item:posts:1"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryCache_MissOnUnknownKey(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if _, err := c.Get(ctx, "slug:posts:no-such-slug"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
	if has, _ := c.Has(ctx, "slug:posts:no-such-slug"); has {
		t.Error("Has reported an unwritten key")
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	// Explicit short TTL next to a default-TTL entry.
	if err := c.Set(ctx, "short", []byte("v"), 30*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(ctx, "long", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); err != ErrCacheMiss {
		t.Errorf("short entry should have expired, got %v", err)
	}
	if _, err := c.Get(ctx, "long"); err != nil {
		t.Errorf("default-TTL entry expired early: %v", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	// A write to one collection must not flush the others.
	keys := []string{
		ListKey("posts", 1, 5, ""),
		ListKey("posts", 2, 5, ""),
		ItemKey("posts", 3),
		SlugKey("posts", "jornada-de-adopcion"),
	}
	for _, k := range keys {
		if err := c.Set(ctx, k, []byte("x"), 0); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}
	if err := c.Set(ctx, ListKey("partners", 1, 5, ""), []byte("x"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := InvalidateCollection(ctx, c, "posts"); err != nil {
		t.Fatalf("InvalidateCollection failed: %v", err)
	}

	for _, k := range keys {
		if _, err := c.Get(ctx, k); err != ErrCacheMiss {
			t.Errorf("%s survived invalidation", k)
		}
	}
	if _, err := c.Get(ctx, ListKey("partners", 1, 5, "")); err != nil {
		t.Error("partners page was flushed by a posts invalidation")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = c.Set(ctx, ItemKey("testimonials", int64(i)), []byte("x"), 0)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := c.Stats().Items; got != 0 {
		t.Errorf("Items = %d after Clear, want 0", got)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_, _ = c.Get(ctx, "a")
	_, _ = c.Get(ctx, "a")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Sets != 2 || stats.Items != 2 {
		t.Errorf("stats = %+v", stats)
	}

	want := float64(2) / 3 * 100
	if stats.HitRate < want-0.01 || stats.HitRate > want+0.01 {
		t.Errorf("HitRate = %.2f, want ~%.2f", stats.HitRate, want)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Sets != 0 {
		t.Errorf("stats after reset = %+v", s)
	}
}

func TestMemoryCache_ConcurrentReadersAndWriters(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Set(ctx, fmt.Sprintf("item:posts:%d", n%8), []byte("v"), 0)
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = c.Get(ctx, fmt.Sprintf("item:posts:%d", n%8))
			}
		}(i)
	}
	wg.Wait()

	if _, err := c.Get(ctx, "item:posts:0"); err != nil {
		t.Errorf("expected key after concurrent access: %v", err)
	}
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	original := []byte("stable")
	if err := c.Set(ctx, "key", original, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	original[0] = 'X'

	val, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "stable" {
		t.Errorf("stored value aliased the caller's slice: %s", val)
	}

	val[0] = 'Y'
	val2, _ := c.Get(ctx, "key")
	if string(val2) != "stable" {
		t.Errorf("returned value aliased the stored slice: %s", val2)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Second})
	ctx := context.Background()

	_ = c.Set(ctx, "key", []byte("v"), 0)
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := c.Get(ctx, "key"); err != ErrCacheClosed {
		t.Errorf("Get after Close = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(ctx, "key2", []byte("v"), 0); err != ErrCacheClosed {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}
