package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestInMemoryCache_SetGet(t *testing.T) {
	cache := NewInMemoryCache(0)

	if err := cache.Set("greeting", "hello"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	raw, ok := cache.Get("greeting")
	if !ok {
		t.Fatal("Expected cache hit")
	}

	var got string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("Expected %q, got %q", "hello", got)
	}
}

func TestInMemoryCache_Miss(t *testing.T) {
	cache := NewInMemoryCache(0)

	if _, ok := cache.Get("absent"); ok {
		t.Error("Expected cache miss")
	}
}

func TestInMemoryCache_NilValue(t *testing.T) {
	cache := NewInMemoryCache(0)

	if err := cache.Set("empty", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	raw, ok := cache.Get("empty")
	if !ok {
		t.Error("Expected hit for stored nil value")
	}
	if raw != nil {
		t.Errorf("Expected nil payload, got %q", raw)
	}
}

func TestInMemoryCache_TTLExpiry(t *testing.T) {
	cache := NewInMemoryCache(20 * time.Millisecond)

	if err := cache.Set("short", "lived"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, ok := cache.Get("short"); !ok {
		t.Fatal("Expected hit before expiry")
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok := cache.Get("short"); ok {
		t.Error("Expected miss after expiry")
	}

	stats, err := cache.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Expected expired entry removed, have %d", stats.Entries)
	}
}

func TestInMemoryCache_DisableEnable(t *testing.T) {
	cache := NewInMemoryCache(0)

	if err := cache.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cache.Disable()

	if _, ok := cache.Get("k"); ok {
		t.Error("Expected miss while disabled")
	}
	if err := cache.Set("k2", "v2"); err != nil {
		t.Errorf("Set while disabled should be a no-op, got %v", err)
	}

	cache.Enable()

	if _, ok := cache.Get("k"); !ok {
		t.Error("Expected stored entry to survive disable")
	}
	if _, ok := cache.Get("k2"); ok {
		t.Error("Expected write while disabled to be dropped")
	}
}

func TestInMemoryCache_ClearAndStats(t *testing.T) {
	cache := NewInMemoryCache(0)

	for i := 0; i < 3; i++ {
		if err := cache.Set(fmt.Sprintf("key%d", i), "value"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	stats, err := cache.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("Expected 3 entries, got %d", stats.Entries)
	}
	if stats.TotalSize != 3*int64(len(`"value"`)) {
		t.Errorf("Unexpected total size %d", stats.TotalSize)
	}
	if stats.MaxSize != 0 {
		t.Errorf("Expected unbounded backend, got max size %d", stats.MaxSize)
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	stats, err = cache.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Expected empty cache after clear, got %d entries", stats.Entries)
	}
}

func TestInMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewInMemoryCache(0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%3)
			_ = cache.Set(key, n)
			_, _ = cache.Get(key)
		}(i)
	}
	wg.Wait()

	stats, err := cache.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("Expected 3 entries, got %d", stats.Entries)
	}
}
