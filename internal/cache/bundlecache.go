package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

const (
	// DefaultMaxBytes bounds the process-wide cache footprint.
	DefaultMaxBytes = 16 * 1024 * 1024
	// DefaultTTL bounds staleness: deletions are not tracked, so an entry
	// expires after this long regardless of access pattern.
	DefaultTTL = 5 * time.Minute
)

// Loader supplies every persisted bundle; the cache refills wholesale
// rather than per key to amortize the load.
type Loader interface {
	LoadAll(ctx context.Context) ([]*bundle.Bundle, error)
}

// Option mutates cache construction.
type Option func(*BundleCache)

// WithMaxBytes overrides the total byte budget.
func WithMaxBytes(n int) Option {
	return func(c *BundleCache) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithTTL overrides the per-entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *BundleCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *BundleCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithCacheLogger injects the logger used for refill diagnostics.
func WithCacheLogger(logger interfaces.Logger) Option {
	return func(c *BundleCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type entry struct {
	key string
	// value is nil for confirmed-absent markers, so repeated reads of a
	// missing bundle do not re-query persistence until the entry expires.
	value     *bundle.Bundle
	size      int
	expiresAt time.Time
}

// BundleCache is the process-wide layer of the two-tier cache: a
// size-bounded, TTL-bounded LRU keyed by bundle key string. Entries are
// never mutated in place after insert; eviction is least-recently-used
// under size pressure plus unconditional expiry past the TTL. A miss or an
// expired entry triggers a wholesale refill from persistence.
//
// The cache is shared by concurrent operations. Two operations may race to
// refill the same missing key; both loading redundantly is acceptable and
// self-healing.
type BundleCache struct {
	mu         sync.Mutex
	loader     Loader
	items      map[string]*list.Element
	lru        *list.List
	totalBytes int
	maxBytes   int
	ttl        time.Duration
	clock      func() time.Time
	logger     interfaces.Logger
}

// NewBundleCache constructs a cache in front of the given loader.
func NewBundleCache(loader Loader, opts ...Option) *BundleCache {
	c := &BundleCache{
		loader:   loader,
		items:    map[string]*list.Element{},
		lru:      list.New(),
		maxBytes: DefaultMaxBytes,
		ttl:      DefaultTTL,
		clock:    time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a clone of the cached bundle for the key, or nil when the
// bundle is confirmed absent. A cold or expired key refills the whole
// cache from persistence before answering; if the key is still unknown a
// confirmed-absent marker is recorded.
func (c *BundleCache) Get(ctx context.Context, key bundle.Key) (*bundle.Bundle, error) {
	keyStr := key.String()

	c.mu.Lock()
	if value, ok := c.lookup(keyStr); ok {
		c.mu.Unlock()
		return value.Clone(), nil
	}
	c.mu.Unlock()

	// Wholesale refill outside the lock; concurrent refills are
	// redundant but harmless.
	records, err := c.loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range records {
		c.put(record.Key.String(), record.Clone())
	}
	if value, ok := c.lookup(keyStr); ok {
		return value.Clone(), nil
	}
	c.put(keyStr, nil)
	c.logger.Debug("bundle confirmed absent", "key", keyStr)
	return nil, nil
}

// Put records the bundle under its key, replacing any cached entry. Save
// paths call it so subsequent reads observe the write immediately instead
// of waiting out the TTL.
func (c *BundleCache) Put(b *bundle.Bundle) {
	if b == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(b.Key.String(), b.Clone())
}

// Purge drops every entry. Bulk write paths call it instead of tracking
// individual keys; the next read refills wholesale.
func (c *BundleCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]*list.Element{}
	c.lru = list.New()
	c.totalBytes = 0
}

// Len reports the number of live entries, including absent markers.
func (c *BundleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// SizeBytes reports the approximate total size of cached entries.
func (c *BundleCache) SizeBytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalBytes
}

// lookup returns the live entry value; expired entries are removed and
// reported as misses. Callers hold the mutex.
func (c *BundleCache) lookup(key string) (*bundle.Bundle, bool) {
	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.clock().After(ent.expiresAt) {
		c.remove(elem)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return ent.value, true
}

// put inserts or replaces an entry and evicts from the LRU tail until the
// byte budget holds. Callers hold the mutex.
func (c *BundleCache) put(key string, value *bundle.Bundle) {
	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
	ent := &entry{
		key:       key,
		value:     value,
		size:      entrySize(key, value),
		expiresAt: c.clock().Add(c.ttl),
	}
	c.items[key] = c.lru.PushFront(ent)
	c.totalBytes += ent.size

	for c.totalBytes > c.maxBytes {
		tail := c.lru.Back()
		if tail == nil {
			break
		}
		c.remove(tail)
	}
}

func (c *BundleCache) remove(elem *list.Element) {
	ent := elem.Value.(*entry)
	c.lru.Remove(elem)
	delete(c.items, ent.key)
	c.totalBytes -= ent.size
}

// entrySize approximates the memory held by an entry.
func entrySize(key string, b *bundle.Bundle) int {
	size := len(key) + 64
	if b == nil {
		return size
	}
	for name, record := range b.Fields {
		size += len(name) + len(record.SourceValue) + len(record.Type)
		for _, chunk := range record.Chunks {
			size += len(chunk.SourceValue) + len(chunk.TargetValue)
		}
	}
	return size
}
