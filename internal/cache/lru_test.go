// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_BasicOperations(t *testing.T) {
	cache := NewLRU[float64](3, time.Minute)

	cache.Add("a", 0.1)
	cache.Add("b", 0.2)
	cache.Add("c", 0.3)

	tests := []struct {
		key  string
		want float64
	}{
		{"a", 0.1},
		{"b", 0.2},
		{"c", 0.3},
	}
	for _, tt := range tests {
		got, found := cache.Get(tt.key)
		if !found {
			t.Errorf("Get(%q) not found", tt.key)
			continue
		}
		if got != tt.want {
			t.Errorf("Get(%q) = %f, want %f", tt.key, got, tt.want)
		}
	}

	if cache.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cache.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	cache := NewLRU[int](3, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	// 'a' becomes most recently used, so 'b' is evicted next.
	cache.Get("a")
	cache.Add("d", 4)

	if _, found := cache.Get("b"); found {
		t.Error("expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := cache.Get(key); !found {
			t.Errorf("expected %q to be present", key)
		}
	}
	if got := cache.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	clock := newFakeClock()
	cache := NewLRU[int](10, time.Minute)
	cache.SetClock(clock.Now)

	cache.Add("a", 1)
	if _, found := cache.Get("a"); !found {
		t.Fatal("expected 'a' before expiry")
	}

	clock.Advance(61 * time.Second)
	if _, found := cache.Get("a"); found {
		t.Error("expected 'a' to be expired")
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want expired entry removed on read", cache.Len())
	}
}

func TestLRU_UpdateResetsTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewLRU[int](3, time.Minute)
	cache.SetClock(clock.Now)

	cache.Add("a", 1)
	clock.Advance(45 * time.Second)
	cache.Add("a", 2)
	clock.Advance(45 * time.Second)

	got, found := cache.Get("a")
	if !found || got != 2 {
		t.Errorf("Get(a) = %d, %v, want 2, true", got, found)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after update", cache.Len())
	}
}

func TestLRU_Remove(t *testing.T) {
	cache := NewLRU[int](10, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)

	if !cache.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if cache.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}
	if _, found := cache.Get("b"); !found {
		t.Error("expected 'b' to still be present")
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	clock := newFakeClock()
	cache := NewLRU[int](10, time.Minute)
	cache.SetClock(clock.Now)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)
	clock.Advance(2 * time.Minute)
	cache.Add("d", 4)

	if removed := cache.CleanupExpired(); removed != 3 {
		t.Errorf("CleanupExpired() = %d, want 3", removed)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
	if _, found := cache.Get("d"); !found {
		t.Error("expected 'd' to survive cleanup")
	}
}

func TestLRU_Stats(t *testing.T) {
	cache := NewLRU[int](10, time.Minute)

	cache.Add("a", 1)
	cache.Get("a")
	cache.Get("a")
	cache.Get("missing")

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("Stats() = %+v, want 2 hits, 1 miss, size 1", stats)
	}
}

func TestLRU_Defaults(t *testing.T) {
	cache := NewLRU[int](0, 0)
	if cache.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", cache.capacity, DefaultCapacity)
	}
	if cache.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", cache.ttl, DefaultTTL)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	cache := NewLRU[int](50, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (id+j)%80)
				cache.Add(key, j)
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() > 50 {
		t.Errorf("Len() = %d, exceeds capacity 50", cache.Len())
	}
	cache.Add("test", 1)
	if _, found := cache.Get("test"); !found {
		t.Error("cache should still work after concurrent access")
	}
}

func BenchmarkLRU_Add(b *testing.B) {
	cache := NewLRU[float64](10000, time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Add(fmt.Sprintf("usim:u%d:u%d", i%500, i%97), 0.5)
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	cache := NewLRU[float64](10000, time.Minute)
	for i := 0; i < 1000; i++ {
		cache.Add(fmt.Sprintf("k%d", i), float64(i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(fmt.Sprintf("k%d", i%1000))
	}
}
