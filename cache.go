package houdiniswap

import (
	"hash/fnv"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// cacheEntry holds one validated response value and its expiry. Expired
// entries are logically dead even before they are physically removed.
type cacheEntry struct {
	value     Value
	expiresAt time.Time
}

// ResponseCache is an in-memory TTL cache of decoded responses for
// idempotent read operations. It is sharded for concurrent use and expires
// lazily: staleness is detected at read time, there is no background sweep.
//
// When disabled, Get always reports a miss and Set is a no-op, so caching
// can never become a behavior dependency of read correctness: enabled and
// disabled paths produce identical results, differing only in transport
// call volume.
type ResponseCache struct {
	shards    []*cacheShard
	numShards int
	enabled   atomic.Bool
}

type cacheShard struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
}

// NewResponseCache creates a cache with the given initial enabled state.
func NewResponseCache(enabled bool) *ResponseCache {
	numShards := 16
	shards := make([]*cacheShard, numShards)
	for i := range shards {
		shards[i] = &cacheShard{store: make(map[string]cacheEntry)}
	}
	c := &ResponseCache{shards: shards, numShards: numShards}
	c.enabled.Store(enabled)
	return c
}

func (c *ResponseCache) getShard(key string) *cacheShard {
	hash := fnv.New32a()
	hash.Write([]byte(key))
	return c.shards[hash.Sum32()%uint32(c.numShards)]
}

// Enabled reports whether the cache participates in lookups.
func (c *ResponseCache) Enabled() bool {
	return c.enabled.Load()
}

// SetEnabled toggles cache participation at runtime.
func (c *ResponseCache) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
}

// Get returns the stored value for key if it has not expired.
func (c *ResponseCache) Get(key string) (Value, bool) {
	if !c.enabled.Load() {
		return Value{}, false
	}

	shard := c.getShard(key)
	shard.mu.RLock()
	entry, exists := shard.store[key]
	shard.mu.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		return Value{}, false
	}
	return entry.value, true
}

// Set stores or overwrites the value for key with a fresh TTL.
func (c *ResponseCache) Set(key string, value Value, ttl time.Duration) {
	if !c.enabled.Load() {
		return
	}

	shard := c.getShard(key)
	shard.mu.Lock()
	shard.store[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	shard.mu.Unlock()
}

// Delete removes a single entry regardless of TTL.
func (c *ResponseCache) Delete(key string) {
	shard := c.getShard(key)
	shard.mu.Lock()
	delete(shard.store, key)
	shard.mu.Unlock()
}

// Clear evicts all entries immediately, regardless of TTL.
func (c *ResponseCache) Clear() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.store = make(map[string]cacheEntry)
		shard.mu.Unlock()
	}
}

// Len returns the number of physically stored entries, including entries
// that have expired but not yet been evicted.
func (c *ResponseCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.store)
		shard.mu.RUnlock()
	}
	return total
}

// cacheKey derives the deterministic cache key for a request: the endpoint
// path plus the canonical (sorted-by-name) query encoding. Two logically
// identical requests always produce the same key; differing parameter
// values always produce different keys.
func cacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	// url.Values.Encode sorts by key.
	return path + "?" + query.Encode()
}
