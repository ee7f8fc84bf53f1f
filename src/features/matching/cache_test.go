package matching

import (
	"testing"
	"time"
)

func newTestCache(ttl time.Duration) (*ProfileCache, *time.Time) {
	cache := NewProfileCache(ttl)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestProfileCache_HitWithinTTL(t *testing.T) {
	cache, now := newTestCache(time.Hour)
	cache.Set(&Profile{PlaylistID: "p1", PlaylistName: "Rock"})

	*now = now.Add(59 * time.Minute)
	profile, ok := cache.Get("p1")
	if !ok {
		t.Fatal("expected cache hit before TTL expiry")
	}
	if profile.PlaylistName != "Rock" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestProfileCache_MissAfterTTL(t *testing.T) {
	cache, now := newTestCache(time.Hour)
	cache.Set(&Profile{PlaylistID: "p1"})

	*now = now.Add(time.Hour + time.Second)
	if _, ok := cache.Get("p1"); ok {
		t.Fatal("expected miss after TTL expiry")
	}
	// The expired entry is evicted on the miss that finds it.
	if cache.Len() != 0 {
		t.Errorf("expected expired entry evicted, len = %d", cache.Len())
	}
}

func TestProfileCache_SetReplacesEntry(t *testing.T) {
	cache, now := newTestCache(time.Hour)
	cache.Set(&Profile{PlaylistID: "p1", SampledCount: 10})

	*now = now.Add(50 * time.Minute)
	cache.Set(&Profile{PlaylistID: "p1", SampledCount: 25})

	// TTL restarts from the second Set.
	*now = now.Add(55 * time.Minute)
	profile, ok := cache.Get("p1")
	if !ok {
		t.Fatal("expected hit, TTL should restart on Set")
	}
	if profile.SampledCount != 25 {
		t.Errorf("expected replaced profile, got %+v", profile)
	}
}

func TestProfileCache_MissForUnknownPlaylist(t *testing.T) {
	cache, _ := newTestCache(time.Hour)
	if _, ok := cache.Get("nope"); ok {
		t.Fatal("expected miss for unknown playlist")
	}
}

func TestProfileCache_Clear(t *testing.T) {
	cache, _ := newTestCache(time.Hour)
	cache.Set(&Profile{PlaylistID: "p1"})
	cache.Set(&Profile{PlaylistID: "p2"})
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, len = %d", cache.Len())
	}
}

func TestNewProfileCache_DefaultTTL(t *testing.T) {
	cache := NewProfileCache(0)
	if cache.ttl != DefaultProfileTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultProfileTTL, cache.ttl)
	}
}
