package musicsearch

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/avasquez/recordshelf-be/internal/models"
)

const (
	// How long a cached result is served without contacting the provider.
	defaultFreshFor = 5 * time.Minute
	// How long an unused entry is retained before eviction.
	defaultRetainFor = 10 * time.Minute
)

type cacheEntry struct {
	candidates []models.AlbumCandidate
	fetchedAt  time.Time
	lastUsedAt time.Time
}

// Cache memoizes album searches per normalized query string.
//
// A hit within the freshness window is served without an upstream call.
// Concurrent identical queries share one in-flight provider call. Blank
// queries never reach the provider and are never cached. Provider errors are
// returned to every waiting caller and leave no cache entry behind.
type Cache struct {
	upstream  Searcher
	freshFor  time.Duration
	retainFor time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*cacheEntry
	group   singleflight.Group
}

// NewCache wraps the given searcher with the default freshness and retention
// windows.
func NewCache(upstream Searcher) *Cache {
	return &Cache{
		upstream:  upstream,
		freshFor:  defaultFreshFor,
		retainFor: defaultRetainFor,
		now:       time.Now,
		entries:   make(map[string]*cacheEntry),
	}
}

// SearchAlbums implements Searcher on top of the upstream provider.
func (c *Cache) SearchAlbums(ctx context.Context, query string) ([]models.AlbumCandidate, error) {
	key := strings.TrimSpace(query)
	if key == "" {
		return []models.AlbumCandidate{}, nil
	}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.fetchedAt) < c.freshFor {
		entry.lastUsedAt = c.now()
		candidates := entry.candidates
		c.mu.Unlock()
		return candidates, nil
	}
	c.mu.Unlock()

	// Miss or stale: one upstream call per distinct key, late callers await
	// the same result. The flight is detached from the first caller's
	// context so its cancellation does not fail the waiters sharing it.
	result, err, _ := c.group.Do(key, func() (any, error) {
		candidates, err := c.upstream.SearchAlbums(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		now := c.now()
		c.mu.Lock()
		c.entries[key] = &cacheEntry{candidates: candidates, fetchedAt: now, lastUsedAt: now}
		c.mu.Unlock()
		return candidates, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.AlbumCandidate), nil
}

// Prune evicts entries that are past the freshness window and entries unused
// for longer than the retention window. Returns how many were removed.
func (c *Cache) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.fetchedAt) >= c.freshFor || now.Sub(entry.lastUsedAt) >= c.retainFor {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
