// Package cache provides a process-local, content-addressed store for
// merged analysis results, bounded by entry count and TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"mediscan/internal/chunker"
	"mediscan/internal/domain"
)

type entry struct {
	analysis   domain.Analysis
	insertedAt time.Time
}

// Cache maps document fingerprints to merged analyses. Entries expire
// after the TTL and are removed lazily on read; inserting past the size
// bound evicts the oldest-inserted entry. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// New creates a Cache bounded to maxEntries entries with the given TTL.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Fingerprint returns the cache key for a document: the SHA-256 hex
// digest of its whitespace-normalized text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(chunker.Normalize(text)))
	return hex.EncodeToString(sum[:])
}

// Get returns the analysis stored under fingerprint, or false if no
// entry exists or the entry has outlived the TTL. Expired entries are
// deleted on access; there is no background sweep.
func (c *Cache) Get(fingerprint string) (*domain.Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		delete(c.entries, fingerprint)
		return nil, false
	}
	out := e.analysis
	return &out, true
}

// Put stores analysis under fingerprint, overwriting any existing entry.
// When the insert would exceed the size bound, the entry with the oldest
// insertion timestamp is evicted first.
func (c *Cache) Put(fingerprint string, analysis domain.Analysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[fingerprint]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[fingerprint] = entry{analysis: analysis, insertedAt: c.now()}
}

// Len returns the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.insertedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.insertedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
