package irradiance

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"github.com/helioplan/helioplan/pkg/types"
)

const (
	// DefaultCacheTTL bounds how long a fetched dataset is reused.
	DefaultCacheTTL = 30 * time.Minute
	// DefaultCacheCapacity bounds the number of cached datasets.
	DefaultCacheCapacity = 100
)

// CacheKey derives the cache key for a fetch. Coordinates are rounded to
// 1e-4° so that near-identical requests share an entry.
func CacheKey(coords types.Coordinates, tiltDeg, azimuthDeg float64, source types.IrradiationSource) string {
	lat := math.Round(coords.LatitudeDeg*1e4) / 1e4
	lon := math.Round(coords.LongitudeDeg*1e4) / 1e4
	h := fnv.New64a()
	fmt.Fprintf(h, "%.4f|%.4f|%.2f|%.2f|%s", lat, lon, tiltDeg, azimuthDeg, source)
	return fmt.Sprintf("%016x", h.Sum64())
}

type cacheEntry struct {
	// done is closed once the fetch populating this entry finished
	done chan struct{}

	dataset    types.IrradiationDataset
	err        error
	insertedAt time.Time
}

// Cache memoizes irradiation fetches with a TTL and a capacity bound.
// Concurrent GetOrFetch calls for the same key collapse into a single
// upstream fetch; unrelated keys never block each other. Instances are
// constructor-owned, not shared module state, so independent engines don't
// share hidden cache state.
type Cache struct {
	ttl      time.Duration
	capacity int

	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string // insertion order, oldest first, one occurrence per key

	// now is replaceable so TTL expiry is testable
	now func() time.Time
}

// NewCache creates a cache with the given TTL and capacity. Non-positive
// arguments use the defaults.
func NewCache(ttl time.Duration, capacity int) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]*cacheEntry),
		now:      time.Now,
	}
}

// Len returns the number of entries, including in-flight ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetOrFetch returns the cached dataset for key, fetching it at most once
// per TTL window. The fetch runs outside the cache lock. If the calling
// context is cancelled while another caller's fetch is in flight, the
// waiter returns immediately with the context error; the fetch itself is
// left to complete and populate the cache (it is pure and idempotent).
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (types.IrradiationDataset, error)) (types.IrradiationDataset, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		select {
		case <-e.done:
			if e.err == nil && c.now().Sub(e.insertedAt) < c.ttl {
				d := e.dataset
				c.mu.Unlock()
				return d, nil
			}
			// expired or failed: fall through and refetch
		default:
			// in flight: wait without holding the lock
			c.mu.Unlock()
			select {
			case <-e.done:
				if e.err != nil {
					return types.IrradiationDataset{}, e.err
				}
				return e.dataset, nil
			case <-ctx.Done():
				return types.IrradiationDataset{}, ctx.Err()
			}
		}
	}

	e := &cacheEntry{done: make(chan struct{}), insertedAt: c.now()}
	c.insertLocked(key, e)
	c.mu.Unlock()

	dataset, err := fetch(ctx)

	c.mu.Lock()
	e.dataset = dataset
	e.err = err
	if err != nil {
		// failed fetches are not cached
		c.removeLocked(key, e)
	}
	c.mu.Unlock()
	close(e.done)

	return dataset, err
}

// insertLocked adds the entry and evicts the oldest entries past capacity.
// Replacing an existing key (the TTL-refetch path) first removes its stale
// order occurrence, so order and entries stay the same size and a refreshed
// key moves to the back of the eviction queue.
func (c *Cache) insertLocked(key string, e *cacheEntry) {
	if old, ok := c.entries[key]; ok && old != e {
		c.removeLocked(key, old)
	}
	c.entries[key] = e
	c.order = append(c.order, key)
	for len(c.entries) > c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		if oldest != key {
			delete(c.entries, oldest)
		}
	}
}

// removeLocked deletes the key if it still maps to the given entry, pruning
// its occurrence from the insertion order.
func (c *Cache) removeLocked(key string, e *cacheEntry) {
	if cur, ok := c.entries[key]; ok && cur == e {
		delete(c.entries, key)
		for i, k := range c.order {
			if k == key {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
}
