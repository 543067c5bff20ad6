// internal/cache/cache.go
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/law-makers/modeldocs/pkg/models"
	"github.com/rs/zerolog/log"
)

// Cache stores fetched pages keyed by URL.
//
// Implementations must be safe for use by multiple goroutines even though
// the scrape pipeline only issues one fetch at a time.
type Cache interface {
	// Get returns the cached result and true if the key is present and fresh.
	Get(key string) (*models.FetchResult, bool)

	// Set stores a result for ttl. An existing entry is replaced.
	Set(key string, result *models.FetchResult, ttl time.Duration) error

	// Delete removes an entry. Missing keys are not an error.
	Delete(key string) error

	// Clear removes every entry.
	Clear() error

	// Close stops background work.
	Close()
}

type cacheEntry struct {
	Result    *models.FetchResult
	ExpiresAt time.Time
	Key       string
	Size      int64
}

// Stats is a snapshot of cache usage
type Stats struct {
	Entries   int
	SizeBytes int64
	MaxSize   int64
	Hits      uint64
	Misses    uint64
}

// HitRate returns hits as a percentage of lookups
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// MemoryCache is an in-memory page cache with LRU eviction
type MemoryCache struct {
	store   map[string]*list.Element
	lruList *list.List
	mu      sync.Mutex
	maxSize int64
	size    int64
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	hits    uint64
	misses  uint64
}

// NewMemoryCache creates a cache bounded to maxSizeBytes (100MB if <= 0)
func NewMemoryCache(maxSizeBytes int64) *MemoryCache {
	mc := newMemoryCache(maxSizeBytes, time.Now)
	go mc.cleanupExpired(time.Minute)
	return mc
}

func newMemoryCache(maxSizeBytes int64, now func() time.Time) *MemoryCache {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 100 * 1024 * 1024
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &MemoryCache{
		store:   make(map[string]*list.Element),
		lruList: list.New(),
		maxSize: maxSizeBytes,
		now:     now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Get retrieves a cached page and marks it most recently used
func (mc *MemoryCache) Get(key string) (*models.FetchResult, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	element, exists := mc.store[key]
	if !exists {
		mc.misses++
		return nil, false
	}

	entry := element.Value.(*cacheEntry)
	if mc.now().After(entry.ExpiresAt) {
		mc.misses++
		mc.removeElement(element)
		return nil, false
	}

	mc.lruList.MoveToFront(element)
	mc.hits++

	log.Debug().Str("key", key).Msg("Cache hit")
	return entry.Result, true
}

// Set stores a page with TTL (5 minutes if ttl <= 0)
func (mc *MemoryCache) Set(key string, result *models.FetchResult, ttl time.Duration) error {
	if result == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	// Rough estimate: body plus ~1KB of struct overhead
	size := int64(len(result.HTML)+len(result.URL)) + 1024

	if element, exists := mc.store[key]; exists {
		mc.removeElement(element)
	}

	// An entry that can never fit is not cached, so it cannot flush the rest
	if size > mc.maxSize {
		log.Debug().
			Str("key", key).
			Int64("size_bytes", size).
			Int64("max_size_bytes", mc.maxSize).
			Msg("Page too large to cache")
		return nil
	}

	for mc.size+size > mc.maxSize && mc.lruList.Len() > 0 {
		mc.evictLRU()
	}

	entry := &cacheEntry{
		Result:    result,
		ExpiresAt: mc.now().Add(ttl),
		Key:       key,
		Size:      size,
	}
	mc.store[key] = mc.lruList.PushFront(entry)
	mc.size += size

	log.Debug().
		Str("key", key).
		Dur("ttl", ttl).
		Int64("size_bytes", size).
		Msg("Cached page")

	return nil
}

// Delete removes a cached page
func (mc *MemoryCache) Delete(key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if element, exists := mc.store[key]; exists {
		mc.removeElement(element)
		log.Debug().Str("key", key).Msg("Deleted from cache")
	}
	return nil
}

// Clear removes all cached pages and resets counters
func (mc *MemoryCache) Clear() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.store = make(map[string]*list.Element)
	mc.lruList = list.New()
	mc.size = 0
	mc.hits = 0
	mc.misses = 0
	return nil
}

// Close stops the background cleanup goroutine
func (mc *MemoryCache) Close() {
	mc.cancel()
}

// Stats returns a usage snapshot
func (mc *MemoryCache) Stats() Stats {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return Stats{
		Entries:   mc.lruList.Len(),
		SizeBytes: mc.size,
		MaxSize:   mc.maxSize,
		Hits:      mc.hits,
		Misses:    mc.misses,
	}
}

// must be called with lock held
func (mc *MemoryCache) removeElement(element *list.Element) {
	entry := element.Value.(*cacheEntry)
	mc.lruList.Remove(element)
	delete(mc.store, entry.Key)
	mc.size -= entry.Size
}

// must be called with lock held
func (mc *MemoryCache) evictLRU() {
	element := mc.lruList.Back()
	if element == nil {
		return
	}
	key := element.Value.(*cacheEntry).Key
	mc.removeElement(element)

	log.Debug().Str("key", key).Msg("Evicted from cache (LRU)")
}

func (mc *MemoryCache) purgeExpired() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	purged := 0

	var next *list.Element
	for element := mc.lruList.Front(); element != nil; element = next {
		next = element.Next()
		if now.After(element.Value.(*cacheEntry).ExpiresAt) {
			mc.removeElement(element)
			purged++
		}
	}
	return purged
}

func (mc *MemoryCache) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := mc.purgeExpired(); n > 0 {
				log.Debug().Int("purged", n).Msg("Removed expired cache entries")
			}
		case <-mc.ctx.Done():
			return
		}
	}
}
