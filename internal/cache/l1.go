// Package cache implements the two-tier cache in front of configuration
// storage: an in-memory LRU (L1) backed by a file-based tier (L2) that
// survives restarts.
package cache

import (
	"fmt"
	"sync"
	"time"

	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
)

// Fingerprint builds the cache key for an entry location.
func Fingerprint(namespace, key string, environment configsDomain.Environment) string {
	return fmt.Sprintf("%s:%s:%s", namespace, key, environment)
}

// Stats is a point-in-time snapshot of L1 cache effectiveness.
type Stats struct {
	Size     int     `json:"size"`
	MaxSize  int     `json:"max_size"`
	HitCount uint64  `json:"hit_count"`
	MissCount uint64 `json:"miss_count"`
	HitRate  float64 `json:"hit_rate"`
}

type l1Item struct {
	entry       configsDomain.Entry
	accessedAt  time.Time
	accessCount uint64
}

// L1 is a fixed-capacity in-memory cache with least-recently-used eviction.
// Recency is tracked per item on both reads and writes. Safe for concurrent
// use.
type L1 struct {
	mu       sync.RWMutex
	items    map[string]*l1Item
	maxSize  int
	hitCount  uint64
	missCount uint64
}

// NewL1 creates an L1 cache holding at most maxSize entries.
func NewL1(maxSize int) *L1 {
	return &L1{
		items:   make(map[string]*l1Item),
		maxSize: maxSize,
	}
}

// Get returns the cached entry for fingerprint, refreshing its recency.
func (c *L1) Get(fingerprint string) (*configsDomain.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[fingerprint]
	if !ok {
		c.missCount++
		return nil, false
	}

	item.accessedAt = time.Now()
	item.accessCount++
	c.hitCount++

	entry := item.entry
	return &entry, true
}

// Put stores an entry. When the cache is full and the fingerprint is new,
// the least recently used item is evicted first.
func (c *L1) Put(fingerprint string, entry configsDomain.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize <= 0 {
		return
	}

	if _, exists := c.items[fingerprint]; !exists && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	c.items[fingerprint] = &l1Item{
		entry:      entry,
		accessedAt: time.Now(),
	}
}

// evictOldest removes the item with the oldest access time. Caller holds mu.
func (c *L1) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true

	for key, item := range c.items {
		if first || item.accessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.accessedAt
			first = false
		}
	}
	if !first {
		delete(c.items, oldestKey)
	}
}

// Invalidate removes one fingerprint.
func (c *L1) Invalidate(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, fingerprint)
}

// Clear removes every item. Hit and miss counters are preserved.
func (c *L1) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*l1Item)
}

// Stats returns a snapshot of the cache counters.
func (c *L1) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		Size:      len(c.items),
		MaxSize:   c.maxSize,
		HitCount:  c.hitCount,
		MissCount: c.missCount,
	}
	if total := c.hitCount + c.missCount; total > 0 {
		stats.HitRate = float64(c.hitCount) / float64(total)
	}
	return stats
}
