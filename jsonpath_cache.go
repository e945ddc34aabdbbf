package strictjson

import "sync"

// pathCacheCapacity is the bounded size of a PathCache (spec.md §4.4/§5
// "compiled-path cache, capacity 64").
const pathCacheCapacity = 64

type cacheEntry struct {
	compiled *CompiledPath
	tick     uint64
}

// PathCache is a bounded LRU cache mapping path text to its CompiledPath.
// Go has no native thread-local storage, so unlike a hypothetical
// per-goroutine cache this is an explicit, non-concurrency-safe type: a
// PathCache is owned by one goroutine at a time, the same single-caller
// contract blastbao-fastjson's Parser uses for its own internal Value
// arena (spec.md §5 "the cache carries no internal lock").
type PathCache struct {
	entries map[string]*cacheEntry
	clock   uint64
}

// NewPathCache returns an empty cache ready for use.
func NewPathCache() *PathCache {
	return &PathCache{entries: make(map[string]*cacheEntry, pathCacheCapacity)}
}

// Get returns the CompiledPath for path, compiling and inserting it on a
// miss and evicting the least-recently-used entry first if the cache is
// already at pathCacheCapacity.
func (c *PathCache) Get(path string) (*CompiledPath, error) {
	c.clock++
	if e, ok := c.entries[path]; ok {
		e.tick = c.clock
		return e.compiled, nil
	}
	cp, err := Compile(path)
	if err != nil {
		return nil, err
	}
	if len(c.entries) >= pathCacheCapacity {
		c.evictLRU()
	}
	c.entries[path] = &cacheEntry{compiled: cp, tick: c.clock}
	return cp, nil
}

// evictLRU removes the entry with the smallest tick — true LRU via a
// monotonic logical clock rather than the teacher's FIFO-via-slice
// eviction, since a lookup here must promote an entry's recency the way
// a get-or-insert cache is expected to.
func (c *PathCache) evictLRU() {
	var oldestPath string
	oldestTick := ^uint64(0)
	for p, e := range c.entries {
		if e.tick < oldestTick {
			oldestTick = e.tick
			oldestPath = p
		}
	}
	delete(c.entries, oldestPath)
}

// Len reports the number of compiled paths currently cached.
func (c *PathCache) Len() int { return len(c.entries) }

// defaultCachePool backs the package-level Query, Update and Delete
// convenience functions (QueryWith uses the caller's own PathCache).
// A pooled PathCache can be reclaimed by the runtime between calls under
// memory pressure, trading away some hit rate for letting callers skip
// managing a *PathCache themselves — appropriate for casual one-off
// queries, not for a hot loop querying the same handful of paths (callers
// on that path should hold their own PathCache instead).
var defaultCachePool = sync.Pool{
	New: func() interface{} { return NewPathCache() },
}

// compileViaPool compiles path through a pooled PathCache, giving the
// package-level Query/Update/Delete convenience functions warm-cache
// behavior without requiring every caller to own a *PathCache.
func compileViaPool(path string) (*CompiledPath, error) {
	c := defaultCachePool.Get().(*PathCache)
	defer defaultCachePool.Put(c)
	return c.Get(path)
}
