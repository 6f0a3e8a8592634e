package service

import (
	"sync"
	"time"

	"github.com/vilaca/commit-dashboard/internal/domain"
)

// DefaultCommitCacheTTL is how long a week of commits is served from memory.
const DefaultCommitCacheTTL = time.Hour

// Clock returns the current time. Tests replace it to move time forward.
type Clock func() time.Time

// CacheKey identifies one member's commits on one project for one week.
type CacheKey struct {
	UserID    int64
	ProjectID string
	WeekStart string // Monday of the week, as a calendar day
}

// CacheEntry is a stored result and the moment it was stored.
type CacheEntry struct {
	Data      []domain.Commit
	Timestamp time.Time
}

// CommitCache is an in-memory store of shaped weekly commits.
// Entries are never evicted; they are treated as missing once older than the TTL
// and overwritten by the next Put.
type CommitCache struct {
	mu      sync.RWMutex
	entries map[CacheKey]CacheEntry
	ttl     time.Duration
	now     Clock
}

// NewCommitCache creates an empty cache. A nil clock means time.Now.
func NewCommitCache(ttl time.Duration, clock Clock) *CommitCache {
	if clock == nil {
		clock = time.Now
	}
	return &CommitCache{
		entries: make(map[CacheKey]CacheEntry),
		ttl:     ttl,
		now:     clock,
	}
}

// Get returns the entry for key if it is younger than the TTL.
func (c *CommitCache) Get(key CacheKey) (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return CacheEntry{}, false
	}

	if c.now().Sub(entry.Timestamp) >= c.ttl {
		return CacheEntry{}, false
	}

	return entry, true
}

// Put stores data under key, replacing any previous entry.
func (c *CommitCache) Put(key CacheKey, data []domain.Commit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = CacheEntry{
		Data:      data,
		Timestamp: c.now(),
	}
}

// Len returns the number of stored entries, fresh or stale.
func (c *CommitCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
