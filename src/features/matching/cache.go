package matching

import (
	"sync"
	"time"
)

// DefaultProfileTTL is how long a cached profile is served before it is
// rebuilt on the next lookup.
const DefaultProfileTTL = time.Hour

type cacheEntry struct {
	profile   *Profile
	expiresAt time.Time
}

// ProfileCache memoizes built playlist profiles keyed by playlist id. It is a
// plain temporal cache: no size bound, no LRU, expired entries are evicted
// lazily on the miss that finds them. Without it, matching N liked tracks
// against M playlists would rebuild each of the M profiles N times.
type ProfileCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewProfileCache creates a cache with the given TTL. A non-positive TTL
// falls back to DefaultProfileTTL.
func NewProfileCache(ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &ProfileCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached profile for a playlist if it exists and has not
// expired.
func (c *ProfileCache) Get(playlistID string) (*Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[playlistID]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, playlistID)
		return nil, false
	}
	return entry.profile, true
}

// Set stores a profile, replacing any previous entry for the playlist
// wholesale and restarting its TTL.
func (c *ProfileCache) Set(profile *Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[profile.PlaylistID] = cacheEntry{
		profile:   profile,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Clear drops every cached profile.
func (c *ProfileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of entries currently held, expired or not.
func (c *ProfileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
