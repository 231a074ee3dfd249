package cache

import (
	"testing"
	"time"
)

func TestTTLCacheExpiresAndEvicts(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var evicted []string
	c := NewTTLCache[string, int](
		WithClock[string, int](func() time.Time { return now }),
		WithEvictHook[string, int](func(k string, _ int) { evicted = append(evicted, k) }),
	)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, 0)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %d,%v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a to be expired")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("entries without ttl never expire")
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("unexpected evictions: %v", evicted)
	}
}

func TestTTLCacheSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	evicted := 0
	c := NewTTLCache[int, string](
		WithClock[int, string](func() time.Time { return now }),
		WithEvictHook[int, string](func(int, string) { evicted++ }),
	)
	for i := 0; i < 5; i++ {
		c.Set(i, "x", time.Duration(i+1)*time.Second)
	}
	now = now.Add(3500 * time.Millisecond)
	if n := c.Sweep(); n != 3 {
		t.Fatalf("expected 3 swept, got %d", n)
	}
	if c.Len() != 2 || evicted != 3 {
		t.Fatalf("len=%d evicted=%d", c.Len(), evicted)
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *TTLCache[string, int]
	c.Set("a", 1, time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("nil cache must miss")
	}
	c.Delete("a")
	if c.Sweep() != 0 || c.Len() != 0 {
		t.Fatalf("nil cache must be empty")
	}
}
