// Package cache provides the bounded, TTL-expiring, least-recently-used
// translation cache shared by router instances.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/text/unicode/norm"

	"github.com/valpere/transroute/internal"
	"github.com/valpere/transroute/internal/translator"
)

// timeNow is swappable in tests.
var timeNow = time.Now

type entry struct {
	result      translator.Result
	createdAt   time.Time
	ttl         time.Duration
	accessCount int
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Stats summarizes cache usage. HitRate is 0 before the first access.
type Stats struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"max_size"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Cache is a mutex-guarded LRU with lazy TTL expiry. The underlying
// simplelru.LRU is not goroutine-safe; every access holds c.mu.
type Cache struct {
	mu      sync.Mutex
	lru     *simplelru.LRU[string, *entry]
	maxSize int
	ttl     time.Duration
	hits    uint64
	misses  uint64
}

// New creates a cache holding at most maxSize entries, each living for ttl.
func New(maxSize int, ttl time.Duration) (*Cache, error) {
	if maxSize < 1 {
		return nil, &internal.ConfigError{Component: "cache", Field: "max_size", Reason: "must be >= 1"}
	}
	if ttl <= 0 {
		return nil, &internal.ConfigError{Component: "cache", Field: "ttl", Reason: "must be positive"}
	}
	lru, err := simplelru.NewLRU[string, *entry](maxSize, nil)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: lru, maxSize: maxSize, ttl: ttl}, nil
}

// Key derives the deterministic cache key for a request. The text is
// NFC-normalized and trimmed so equivalent inputs share an entry.
func Key(text, sourceLang, targetLang string) string {
	normalized := norm.NFC.String(strings.TrimSpace(text))
	h := sha256.Sum256([]byte(normalized + "\x00" + sourceLang + "\x00" + targetLang))
	return hex.EncodeToString(h[:])
}

// Get returns the cached result for key. An expired entry is removed and
// counted as a miss; a fresh hit is promoted to most recently used.
func (c *Cache) Get(key string) (translator.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return translator.Result{}, false
	}
	if e.expired(timeNow()) {
		c.lru.Remove(key)
		c.misses++
		return translator.Result{}, false
	}

	e.accessCount++
	c.hits++
	return e.result, true
}

// Put inserts or refreshes an entry. When full, the least-recently-used
// entry is evicted first.
func (c *Cache) Put(key string, res translator.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, &entry{
		result:    res,
		createdAt: timeNow(),
		ttl:       c.ttl,
	})
}

// CleanupExpired removes every expired entry and returns the count removed.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := timeNow()
	removed := 0
	for _, key := range c.lru.Keys() {
		if e, ok := c.lru.Peek(key); ok && e.expired(now) {
			c.lru.Remove(key)
			removed++
		}
	}
	return removed
}

// Clear empties the cache and returns the prior size. Hit/miss counters are
// process-lifetime and survive a clear.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := c.lru.Len()
	c.lru.Purge()
	return size
}

// Stats returns a snapshot of size and hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:    c.lru.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}
