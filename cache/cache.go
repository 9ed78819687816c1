package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/riftcache/riftcache/internal/util"
)

// Cache is the sharded, in-process key/value engine with TTL, parent-child
// dependencies, and admission control.
// All public methods are safe for concurrent use. A single writer lock
// (depLock) serializes the handful of operations that touch the
// dependency forest (set with a parent or with Nx/Xx, set_parent, expire,
// persist, the delete batch inside del) so cycle detection and cascading
// invalidation never race with each other; everything else proceeds shard-by-shard
// under the Store's per-shard locks with no cross-key serialization.
type Cache struct {
	store   *Store
	stats   Stats
	config  Config
	depLock sync.RWMutex

	cleanupCounter atomic.Uint64
	closed         atomic.Bool
}

// New builds a Cache from config, filling in NoopMetrics if none was
// supplied and sizing the shard table from ShardMultiplier.
func New(config Config) *Cache {
	if config.Metrics == nil {
		config.Metrics = NoopMetrics{}
	}
	if config.ShardMultiplier <= 0 {
		config.ShardMultiplier = 4
	}
	shardCount := util.ReasonableShardCount(config.ShardMultiplier)
	return &Cache{
		store:  newStore(shardCount),
		config: config,
	}
}

// numSamples is the fixed window size for the sampled expirer, per
// the sampled-expiration design.
const numSamples = 20

// now returns the current time from config.Clock if one was supplied,
// or the real wall clock otherwise. Injecting a Clock makes TTL and
// cascading-invalidation tests deterministic.
func (c *Cache) now() time.Time {
	if c.config.Clock == nil {
		return time.Now()
	}
	return time.Unix(0, c.config.Clock.NowUnixNano())
}

// Get returns the value for key and true if key is present and valid (not
// itself expired and not invalidated by an invalid parent). A present but
// invalid entry is physically removed before Get reports the miss.
func (c *Cache) Get(key string) (Value, bool) {
	now := c.now()
	e, ok := c.store.get(key)
	if !ok {
		c.stats.addMiss()
		c.config.Metrics.Miss()
		return Value{}, false
	}

	if !c.isValid(e, now) {
		reason := InvalidateCascade
		if e.selfExpired(now) {
			reason = InvalidateExpired
		}
		removed := c.store.delete(key)
		c.stats.addMiss()
		c.config.Metrics.Miss()
		if removed != nil {
			c.stats.addMemory(-(len(key) + removed.memoryUsage()))
			c.config.Metrics.Invalidate(reason)
			if c.config.OnInvalidate != nil {
				c.config.OnInvalidate(key, reason)
			}
		}
		return Value{}, false
	}

	var out Value
	found := false
	c.store.withLocked(key, func(existing *Entry) *Entry {
		if existing == nil {
			return nil
		}
		existing.markAccessed(now)
		out = existing.Value.Clone()
		found = true
		return existing
	})
	if !found {
		// Removed by a concurrent operation between the validity check and
		// the locked re-read; report it the same as any other miss.
		c.stats.addMiss()
		c.config.Metrics.Miss()
		return Value{}, false
	}
	c.stats.addHit()
	c.config.Metrics.Hit()
	return out, true
}

// Set stores value under key per opts, performing admission control
// (MaxMemory/MaxKeys) and, when opts carries a parent, cycle detection.
// It returns (false, nil) for a failed Nx/Xx precondition, and
// (false, err) for a rejected admission or an invalid parent.
func (c *Cache) Set(key string, value Value, opts SetOptions) (bool, error) {
	if c.closed.Load() {
		return false, nil
	}
	now := c.now()

	needsDepLock := opts.Parent != nil || opts.Nx || opts.Xx
	if needsDepLock {
		c.depLock.Lock()
		defer c.depLock.Unlock()
	}

	if opts.Nx && c.store.contains(key) {
		return false, nil
	}
	if opts.Xx && !c.store.contains(key) {
		return false, nil
	}

	var parentCopy *string
	if opts.Parent != nil {
		if !c.config.EnableDependencies {
			return false, ErrDependenciesDisabled
		}
		if !c.store.contains(*opts.Parent) {
			return false, newParentNotFoundError(*opts.Parent)
		}
		if c.wouldCreateCycle(key, *opts.Parent) {
			return false, newDependencyCycleError(key, *opts.Parent)
		}
		pc := *opts.Parent
		parentCopy = &pc
	}

	var ttl *Ttl
	if opts.Ttl != nil {
		if opts.Sliding {
			ttl = NewSlidingTtl(*opts.Ttl, now)
		} else {
			ttl = NewTtl(*opts.Ttl, now)
		}
	}
	fresh := newEntry(value.Clone(), ttl, parentCopy, now)
	newContribution := len(key) + fresh.memoryUsage()

	var admissionErr error
	c.store.withLocked(key, func(existing *Entry) *Entry {
		oldContribution := 0
		existed := existing != nil
		if existed {
			oldContribution = len(key) + existing.memoryUsage()
		}
		delta := newContribution - oldContribution

		if c.config.MaxMemory != nil {
			current := int(c.stats.memoryUsage.Load())
			if current+delta > *c.config.MaxMemory {
				admissionErr = ErrMemoryLimitExceeded
				return existing
			}
		}
		if c.config.MaxKeys != nil && !existed {
			if c.store.len() >= *c.config.MaxKeys {
				admissionErr = ErrKeyLimitExceeded
				return existing
			}
		}

		c.stats.addMemory(delta)
		return fresh
	})
	if admissionErr != nil {
		return false, admissionErr
	}
	c.stats.addSet()
	c.config.Metrics.Set()
	c.config.Metrics.Size(c.store.len(), c.stats.memoryUsage.Load())
	return true, nil
}

// Del removes each of keys (duplicates and absent keys are harmless) and
// returns the count actually removed.
func (c *Cache) Del(keys []string) int {
	if c.closed.Load() {
		return 0
	}
	return len(c.delInternal(keys, InvalidateManual))
}

// Delete is the single-key convenience form of Del.
func (c *Cache) Delete(key string) bool {
	return c.Del([]string{key}) == 1
}

// delInternal performs the locked delete batch shared by Del and
// CleanupExpired, firing Metrics.Delete/Invalidate and OnInvalidate for
// whatever was actually removed once depLock is released. reason
// distinguishes a manual del from the sampled expirer's own sweep for
// OnInvalidate's benefit.
func (c *Cache) delInternal(keys []string, reason InvalidateReason) []string {
	c.depLock.Lock()
	var removed []string
	freed := 0
	for _, k := range keys {
		e := c.store.delete(k)
		if e != nil {
			removed = append(removed, k)
			freed += len(k) + e.memoryUsage()
		}
	}
	c.depLock.Unlock()

	if len(removed) > 0 {
		c.stats.addDeletes(len(removed))
		c.stats.addMemory(-freed)
		c.config.Metrics.Delete(len(removed))
		for _, k := range removed {
			c.config.Metrics.Invalidate(reason)
			if c.config.OnInvalidate != nil {
				c.config.OnInvalidate(k, reason)
			}
		}
		c.config.Metrics.Size(c.store.len(), c.stats.memoryUsage.Load())
	}
	return removed
}

// Exists reports whether key is present and valid, without mutating
// access metadata or stats.
func (c *Cache) Exists(key string) bool {
	e, ok := c.store.get(key)
	if !ok {
		return false
	}
	return c.isValid(e, c.now())
}

// ExistsMulti counts how many of keys are present and valid; duplicates
// in keys are counted once per occurrence.
func (c *Cache) ExistsMulti(keys []string) int {
	n := 0
	for _, k := range keys {
		if c.Exists(k) {
			n++
		}
	}
	return n
}

// Ttl reports remaining seconds until expiry, -1 if key has no Ttl, or
// -2 if key is absent or its own Ttl has already elapsed.
func (c *Cache) Ttl(key string) int64 {
	e, ok := c.store.get(key)
	if !ok {
		return -2
	}
	if e.Ttl == nil {
		return -1
	}
	remaining, ok := e.Ttl.Remaining(c.now())
	if !ok {
		return -2
	}
	return int64(remaining / time.Second)
}

// Expire installs a fresh non-sliding Ttl of seconds on key, returning 1
// if key exists or 0 if it does not.
func (c *Cache) Expire(key string, seconds uint64) int64 {
	c.depLock.Lock()
	defer c.depLock.Unlock()

	found := false
	now := c.now()
	c.store.withLocked(key, func(existing *Entry) *Entry {
		if existing == nil {
			return nil
		}
		found = true
		existing.Ttl = NewTtl(time.Duration(seconds)*time.Second, now)
		return existing
	})
	if found {
		return 1
	}
	return 0
}

// Persist strips any Ttl from key, returning 1 if key exists or 0 if it
// does not.
func (c *Cache) Persist(key string) int64 {
	c.depLock.Lock()
	defer c.depLock.Unlock()

	found := false
	c.store.withLocked(key, func(existing *Entry) *Entry {
		if existing == nil {
			return nil
		}
		found = true
		existing.Ttl = nil
		return existing
	})
	if found {
		return 1
	}
	return 0
}

// Parent returns the parent key recorded for key, if any.
func (c *Cache) Parent(key string) (string, bool) {
	e, ok := c.store.get(key)
	if !ok || e.Parent == nil {
		return "", false
	}
	return *e.Parent, true
}

// SetParent attaches parent to an existing key, after the same
// existence and cycle checks as set with opts.Parent. Returns 1 if key
// exists and the parent was attached, 0 if key does not exist.
func (c *Cache) SetParent(key, parent string) (int64, error) {
	if !c.config.EnableDependencies {
		return 0, ErrDependenciesDisabled
	}

	c.depLock.Lock()
	defer c.depLock.Unlock()

	if !c.store.contains(parent) {
		return 0, newParentNotFoundError(parent)
	}
	if c.wouldCreateCycle(key, parent) {
		return 0, newDependencyCycleError(key, parent)
	}

	found := false
	c.store.withLocked(key, func(existing *Entry) *Entry {
		if existing == nil {
			return nil
		}
		found = true
		pc := parent
		existing.Parent = &pc
		return existing
	})
	if found {
		return 1, nil
	}
	return 0, nil
}

// ChildDepth pairs a descendant key with its distance from the queried
// ancestor, as returned by ChildrenRecursive.
type ChildDepth struct {
	Key   string
	Depth uint64
}

// Children returns every key whose recorded parent is exactly parent.
func (c *Cache) Children(parent string) []string {
	var out []string
	c.store.forEach(func(k string, e *Entry) bool {
		if e.Parent != nil && *e.Parent == parent {
			out = append(out, k)
		}
		return true
	})
	return out
}

// ChildrenRecursive performs a breadth-first walk of the dependency
// forest rooted at parent, up to maxDepth levels, scanning the store one
// level at a time.
func (c *Cache) ChildrenRecursive(parent string, maxDepth int) []ChildDepth {
	var out []ChildDepth
	frontier := map[string]struct{}{parent: {}}

	for depth := 1; depth <= maxDepth; depth++ {
		var next []string
		c.store.forEach(func(k string, e *Entry) bool {
			if e.Parent != nil {
				if _, ok := frontier[*e.Parent]; ok {
					next = append(next, k)
				}
			}
			return true
		})
		if len(next) == 0 {
			break
		}
		frontier = make(map[string]struct{}, len(next))
		for _, k := range next {
			out = append(out, ChildDepth{Key: k, Depth: uint64(depth)})
			frontier[k] = struct{}{}
		}
	}
	return out
}

// Keys returns up to limit keys matching pattern, skipping any key that
// is present but currently invalid.
func (c *Cache) Keys(pattern string, limit int) []string {
	out := make([]string, 0)
	now := c.now()
	c.store.forEach(func(k string, e *Entry) bool {
		if len(out) >= limit {
			return false
		}
		if !c.isValid(e, now) {
			return true
		}
		if matchesPattern(k, pattern) {
			out = append(out, k)
		}
		return len(out) < limit
	})
	return out
}

// FlushAll removes every key and resets memory_usage to zero. Hit/miss/
// set/delete counters are left untouched.
func (c *Cache) FlushAll() {
	if c.closed.Load() {
		return
	}
	removed := c.store.clear()
	c.stats.resetMemory()
	if len(removed) > 0 {
		for _, k := range removed {
			c.config.Metrics.Invalidate(InvalidateManual)
			if c.config.OnInvalidate != nil {
				c.config.OnInvalidate(k, InvalidateManual)
			}
		}
		c.config.Metrics.Size(c.store.len(), c.stats.memoryUsage.Load())
	}
}

// Len reports the resident key count (including entries not yet lazily
// evicted despite being invalid).
func (c *Cache) Len() int { return c.store.len() }

// IsEmpty reports whether Len() == 0.
func (c *Cache) IsEmpty() bool { return c.Len() == 0 }

// MemoryUsage reports the running total tracked by Stats.
func (c *Cache) MemoryUsage() int64 { return c.stats.memoryUsage.Load() }

// GetStats returns a point-in-time snapshot of the five counters.
func (c *Cache) GetStats() Snapshot { return c.stats.snapshot() }

// Render returns the Prometheus-style exposition text for the counters.
func (c *Cache) Render() string { return c.stats.Render() }

// Close marks the cache closed: further Set/Del/FlushAll calls become
// no-ops, while Get/Exists/Keys and the other read paths keep working so
// in-flight readers drain cleanly. Close never blocks and never fails.
func (c *Cache) Close() error {
	c.closed.Store(true)
	return nil
}

// CleanupExpired runs one pass of the sampled expirer: advance the
// round-robin shard counter, sample a window of up to numSamples keys
// from that shard, and delete whichever of those are actually expired.
// Returns the count removed.
func (c *Cache) CleanupExpired() int {
	n := c.store.NumShards()
	if n == 0 {
		return 0
	}
	counter := c.cleanupCounter.Add(1) - 1
	shardIdx := int(counter % uint64(n))

	keys := c.store.sampleExpired(shardIdx, counter, numSamples, c.now())
	if len(keys) == 0 {
		return 0
	}
	return len(c.delInternal(keys, InvalidateExpired))
}

// isValid iteratively walks the parent chain starting at e, returning
// false as soon as e itself or any ancestor is found expired or
// missing. Cycles are prevented at write time (wouldCreateCycle), so
// this walk is guaranteed to terminate.
func (c *Cache) isValid(e *Entry, now time.Time) bool {
	cur := e
	for {
		if cur.selfExpired(now) {
			return false
		}
		if cur.Parent == nil {
			return true
		}
		parentEntry, ok := c.store.get(*cur.Parent)
		if !ok {
			return false
		}
		cur = parentEntry
	}
}

// wouldCreateCycle reports whether attaching parent as key's parent
// would close a cycle, by walking upward from parent looking for key.
// Callers must hold depLock for the duration of both this call and the
// write that follows it.
func (c *Cache) wouldCreateCycle(key, parent string) bool {
	if key == parent {
		return true
	}
	visited := map[string]struct{}{}
	cur := parent
	for {
		if cur == key {
			return true
		}
		if _, seen := visited[cur]; seen {
			return true
		}
		visited[cur] = struct{}{}

		e, ok := c.store.get(cur)
		if !ok || e.Parent == nil {
			return false
		}
		cur = *e.Parent
	}
}
