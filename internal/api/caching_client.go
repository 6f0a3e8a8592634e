package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vilaca/commit-dashboard/internal/domain"
)

// CachingClient wraps a Client and caches project metadata lookups.
// Follows Decorator pattern to add caching without modifying the underlying client.
// Activity listings (events, merge requests, notes) are always passed through.
type CachingClient struct {
	Client
	cache  *cache
	logger logrus.FieldLogger
}

// NewCachingClient creates a new caching client wrapper.
func NewCachingClient(client Client, cacheDuration time.Duration, logger logrus.FieldLogger) *CachingClient {
	return &CachingClient{
		Client: client,
		cache:  newCache(cacheDuration, time.Now),
		logger: logger,
	}
}

// GetProject retrieves a project with caching.
func (c *CachingClient) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	key := fmt.Sprintf("GetProject:%s", projectID)

	if cached, found := c.cache.get(key); found {
		if project, ok := cached.(*domain.Project); ok {
			c.logger.Debugf("Cache hit: %s", key)
			// Callers attach members to the returned project.
			clone := *project
			return &clone, nil
		}
	}

	c.logger.Debugf("Cache miss: %s - fetching from API", key)
	project, err := c.Client.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	clone := *project
	c.cache.set(key, &clone)

	return project, nil
}

// GetMembers retrieves project members with caching.
func (c *CachingClient) GetMembers(ctx context.Context, projectID string) ([]domain.Member, error) {
	key := fmt.Sprintf("GetMembers:%s", projectID)

	if cached, found := c.cache.get(key); found {
		if members, ok := cached.([]domain.Member); ok {
			c.logger.Debugf("Cache hit: %s (%d members)", key, len(members))
			return members, nil
		}
	}

	c.logger.Debugf("Cache miss: %s - fetching from API", key)
	members, err := c.Client.GetMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	c.cache.set(key, members)

	return members, nil
}

// cache implements a thread-safe TTL cache.
// Expired entries are reported as missing and overwritten on the next set.
type cache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	duration time.Duration
	now      func() time.Time
}

// cacheEntry holds a cached value with expiry time.
type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

func newCache(duration time.Duration, now func() time.Time) *cache {
	return &cache{
		entries:  make(map[string]*cacheEntry),
		duration: duration,
		now:      now,
	}
}

func (c *cache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.value, true
}

func (c *cache) set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		value:     value,
		expiresAt: c.now().Add(c.duration),
	}
}
