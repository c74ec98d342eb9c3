// Fingerprint & Cache (C1), continued: the result cache itself.
//
// Grounded on storage.MemoryStorage's shape (interface + single
// mutex-guarded map) but the contract is the one spec §4.1 describes:
// lookup / reserve / publish over CacheEntry, not conversation storage.

package core

import (
	"sync"
	"time"

	"github.com/frcscout/picklist/team"
)

// Cache is the abstraction the orchestrator stores results behind. The
// only module-level state in the core is an implementation of this
// interface; no other singletons exist.
type Cache interface {
	// Lookup returns the entry for key, or ok=false if absent or expired.
	Lookup(key string) (entry team.CacheEntry, ok bool)

	// Reserve atomically inserts an in-flight marker for key if none
	// exists (or the existing one has expired). first reports whether
	// this caller is the one who created the reservation.
	Reserve(key string) (first bool)

	// Publish overwrites the entry for key with a progress or final
	// value. Publishing is only valid for a key the caller has Reserved.
	Publish(key string, entry team.CacheEntry)

	// Delete removes a key outright, used to clear an in-flight marker
	// on cancellation so it does not linger until TTL expiry.
	Delete(key string)
}

// MemoryCache is a process-local, mutex-guarded implementation of Cache.
// Distribution is out of scope (spec §4.1); a Cache implementation backed
// by shared storage can be substituted without the orchestrator changing.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]team.CacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory cache with the given TTL.
// A non-positive ttl disables expiry.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]team.CacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Lookup(key string) (team.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return team.CacheEntry{}, false
	}
	if c.expired(entry) {
		delete(c.entries, key)
		return team.CacheEntry{}, false
	}
	return entry, true
}

func (c *MemoryCache) Reserve(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok && !c.expired(existing) {
		return false
	}

	now := c.now()
	c.entries[key] = team.CacheEntry{
		Status:   team.CacheInFlight,
		Reserved: now,
		StoredAt: now,
	}
	return true
}

func (c *MemoryCache) Publish(key string, entry team.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.StoredAt = c.now()
	c.entries[key] = entry
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *MemoryCache) expired(entry team.CacheEntry) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(entry.StoredAt) > c.ttl
}

var _ Cache = (*MemoryCache)(nil)
