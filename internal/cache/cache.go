// cache.go provides the in-memory region cache for resolved catalog
// aggregates. Entries are memoized by a composite key and indexed under a
// named region plus every entity id they depend on, so writes can expire
// exactly the affected entries. Concurrent misses for the same key share a
// single loader run.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds how long a resolved aggregate stays cached without
// being invalidated by a write.
const DefaultTTL = 30 * time.Minute

// Key identifies one cached computation: entity region, operation name,
// the requested id set, and any extra parameters (response group, paging).
type Key struct {
	Region string
	Op     string
	IDs    []uuid.UUID
	Params string
}

// String renders the canonical cache key. Id order is preserved — a batch
// requested in a different order is a different result.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Region)
	b.WriteByte('|')
	b.WriteString(k.Op)
	b.WriteByte('|')
	for i, id := range k.IDs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	b.WriteByte('|')
	b.WriteString(k.Params)
	return b.String()
}

// Loader computes a cache entry on miss. It returns the value together
// with every entity id the value depends on (requested ids included, even
// when nothing was found — a miss for a non-existent id must still get an
// invalidation token, otherwise its absence would be cached forever).
type Loader func(ctx context.Context) (value any, deps []uuid.UUID, err error)

// Cache is the process-wide region cache.
type Cache struct {
	entries *ttlcache.Cache[string, any]
	group   singleflight.Group

	mu      sync.Mutex
	gen     uint64                         // bumped on every expiry
	regions map[string]map[string]struct{} // region name -> keys
	tokens  map[string]map[string]struct{} // entity id -> keys
	keyDeps map[string][]string            // key -> entity ids (for index pruning)
}

// New creates a region cache with the given entry TTL (DefaultTTL if zero)
// and starts its expiration loop. Call Stop on shutdown.
func New(ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		regions: make(map[string]map[string]struct{}),
		tokens:  make(map[string]map[string]struct{}),
		keyDeps: make(map[string][]string),
	}
	c.entries = ttlcache.New[string, any](
		ttlcache.WithTTL[string, any](ttl),
	)
	c.entries.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, any]) {
		c.unregister(item.Key())
	})
	go c.entries.Start()
	return c
}

// Stop terminates the expiration loop.
func (c *Cache) Stop() {
	c.entries.Stop()
}

// GetOrCreate returns the cached value for key, or runs loader to compute
// it. At most one loader runs per key at a time; concurrent requesters for
// the same key await that single computation. Loader errors are not cached.
func (c *Cache) GetOrCreate(ctx context.Context, key Key, loader Loader) (any, error) {
	k := key.String()
	if item := c.entries.Get(k); item != nil {
		return item.Value(), nil
	}

	v, err, _ := c.group.Do(k, func() (any, error) {
		// Re-check: another flight may have populated the entry between
		// our miss and acquiring the flight.
		if item := c.entries.Get(k); item != nil {
			return item.Value(), nil
		}
		start := c.generation()
		value, deps, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		// An expiry that ran while the loader was computing may have
		// targeted this very entry before it was indexed. The snapshot
		// could predate the write, so serve it once without caching.
		if c.generation() != start {
			return value, nil
		}
		c.register(k, key.Region, deps)
		c.entries.Set(k, value, ttlcache.DefaultTTL)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ExpireRegion drops every entry indexed under the named region.
func (c *Cache) ExpireRegion(name string) {
	c.mu.Lock()
	c.gen++
	keys := make([]string, 0, len(c.regions[name]))
	for k := range c.regions[name] {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	c.drop(keys)
	slog.Debug("cache region expired", "region", name, "entries", len(keys))
}

// ExpireEntity drops only the entries whose value depends on the given
// entity id. Unrelated entries stay put.
func (c *Cache) ExpireEntity(id uuid.UUID) {
	tok := id.String()
	c.mu.Lock()
	c.gen++
	keys := make([]string, 0, len(c.tokens[tok]))
	for k := range c.tokens[tok] {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	c.drop(keys)
	slog.Debug("cache entity expired", "id", tok, "entries", len(keys))
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// generation returns the expiry counter. A load compares it before and
// after running its loader to detect a racing expiry.
func (c *Cache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// drop deletes keys from the entry store. Index pruning happens in the
// eviction callback; the singleflight slot is forgotten so the next
// request recomputes instead of joining a stale flight.
func (c *Cache) drop(keys []string) {
	for _, k := range keys {
		c.group.Forget(k)
		c.entries.Delete(k)
	}
}

// register indexes a key under its region and its entity-id tokens.
// Must not be called while holding mu.
func (c *Cache) register(key, region string, deps []uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regions[region] == nil {
		c.regions[region] = make(map[string]struct{})
	}
	c.regions[region][key] = struct{}{}

	ids := make([]string, 0, len(deps)+1)
	ids = append(ids, "region:"+region)
	seen := map[string]struct{}{}
	for _, dep := range deps {
		tok := dep.String()
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if c.tokens[tok] == nil {
			c.tokens[tok] = make(map[string]struct{})
		}
		c.tokens[tok][key] = struct{}{}
		ids = append(ids, tok)
	}
	c.keyDeps[key] = ids
}

// unregister prunes a key from the region and token indexes.
func (c *Cache) unregister(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tok := range c.keyDeps[key] {
		if region, ok := strings.CutPrefix(tok, "region:"); ok {
			delete(c.regions[region], key)
			if len(c.regions[region]) == 0 {
				delete(c.regions, region)
			}
			continue
		}
		delete(c.tokens[tok], key)
		if len(c.tokens[tok]) == 0 {
			delete(c.tokens, tok)
		}
	}
	delete(c.keyDeps, key)
}
