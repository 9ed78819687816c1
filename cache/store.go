package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/riftcache/riftcache/internal/util"
)

// shard is one independently lockable partition of the Store.
type shard struct {
	mu sync.RWMutex
	m  map[string]*Entry
}

// Store is a sharded concurrent mapping from key to Entry. It is exposed
// (within the package) to the sampled expirer for shard-at-a-time access,
// per the sampled-expiration design.
//
// count tracks the resident key count with a dedicated atomic counter
// rather than summing shard sizes on every call: Set's admission check
// needs the current key count while a single shard's lock is already
// held, and scanning all shards at that point would self-deadlock on the
// shard already locked. An atomic counter keeps Len O(1) and lock-free.
type Store struct {
	shards []*shard
	hash   func(string) uint64
	count  atomic.Int64
}

// newStore builds a Store with the given shard count (rounded up to a
// power of two) and FNV-1a hashing.
func newStore(shardCount int) *Store {
	n := int(util.NextPow2(uint64(shardCount)))
	if n < 1 {
		n = 1
	}
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{m: make(map[string]*Entry)}
	}
	return &Store{
		shards: shards,
		hash:   util.Fnv64aString,
	}
}

// shardFor returns the shard owning key.
func (s *Store) shardFor(key string) *shard {
	idx := util.ShardIndex(s.hash(key), len(s.shards))
	return s.shards[idx]
}

// NumShards reports the shard count.
func (s *Store) NumShards() int { return len(s.shards) }

// get returns the entry for key and whether it was present, without
// mutating access metadata.
func (s *Store) get(key string) (*Entry, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, ok := sh.m[key]
	return e, ok
}

// withLocked runs fn with the owning shard's write lock held, passing the
// current entry (nil if absent) and allowing fn to return a replacement
// (nil to delete, same pointer or new pointer to upsert).
func (s *Store) withLocked(key string, fn func(existing *Entry) (next *Entry)) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	existing := sh.m[key]
	next := fn(existing)
	if next == nil {
		if existing != nil {
			delete(sh.m, key)
			s.count.Add(-1)
		}
	} else {
		if existing == nil {
			s.count.Add(1)
		}
		sh.m[key] = next
	}
}

// set unconditionally inserts/replaces key and returns the previous entry
// (nil if none).
func (s *Store) set(key string, e *Entry) (previous *Entry) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	previous = sh.m[key]
	if previous == nil {
		s.count.Add(1)
	}
	sh.m[key] = e
	return previous
}

// delete removes key and returns the removed entry (nil if absent).
func (s *Store) delete(key string) *Entry {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.m[key]
	if !ok {
		return nil
	}
	delete(sh.m, key)
	s.count.Add(-1)
	return e
}

// contains reports presence without reading the value (used by admission
// and cycle-detection checks that only need existence).
func (s *Store) contains(key string) bool {
	_, ok := s.get(key)
	return ok
}

// len returns the resident entry count via the atomic counter. Kept O(1)
// deliberately: Set's admission check reads it while one shard is already
// locked, and a shard-by-shard scan at that point would deadlock on the
// shard Set is holding.
func (s *Store) len() int {
	return int(s.count.Load())
}

// clear empties every shard and returns the keys that were actually
// resident, so callers can fire per-key invalidation hooks the same
// way a targeted delete does.
func (s *Store) clear() []string {
	var removed []string
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k := range sh.m {
			removed = append(removed, k)
		}
		sh.m = make(map[string]*Entry)
		sh.mu.Unlock()
	}
	s.count.Store(0)
	return removed
}

// forEach invokes fn(key, entry) for every resident entry, one shard's
// read-lock at a time; no lock is held across shards. fn must not call
// back into the Store.
func (s *Store) forEach(fn func(key string, e *Entry) bool) {
	for _, sh := range s.shards {
		sh.mu.RLock()
		cont := true
		for k, e := range sh.m {
			if !fn(k, e) {
				cont = false
				break
			}
		}
		sh.mu.RUnlock()
		if !cont {
			return
		}
	}
}

// sampleExpired returns up to numSamples keys from a contiguous window of
// shard shardIdx whose Ttl is present and expired as of now, choosing the
// window per the offset formula in the sampled-expiration design step 5.
func (s *Store) sampleExpired(shardIdx int, counter uint64, numSamples int, now time.Time) []string {
	sh := s.shards[shardIdx%len(s.shards)]
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	m := len(sh.m)
	if m == 0 {
		return nil
	}

	keys := make([]string, 0, m)
	for k := range sh.m {
		keys = append(keys, k)
	}

	var window []string
	if m < numSamples {
		window = keys
	} else {
		offset := int((counter * 7) % uint64(m-numSamples+1))
		window = keys[offset : offset+numSamples]
	}

	out := make([]string, 0, len(window))
	for _, k := range window {
		e := sh.m[k]
		if e.Ttl != nil && e.Ttl.IsExpired(now) {
			out = append(out, k)
		}
	}
	return out
}
