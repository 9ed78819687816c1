// Package cache provides a sharded in-memory key/value store with
// per-entry TTL (absolute or sliding), a parent/child dependency graph
// with cascading invalidation, hard-reject admission control, and a
// probabilistically sampled background expirer.
//
// Design
//
//   - Concurrency: the keyspace is split into shards, each protected by
//     its own RWMutex. Shard count is chosen by ReasonableShardCount, a
//     power of two sized from GOMAXPROCS. Cross-shard operations (Keys,
//     Children, ChildrenRecursive, CleanupExpired's sampling) take one
//     shard's lock at a time and hold none across shards.
//
//   - Dependencies: a key may record one parent. A key is valid only if
//     it and every ancestor, transitively, are unexpired and present.
//     Invalidation is derived at read time by walking the parent chain,
//     not propagated eagerly to descendants on write. Attaching a parent
//     is cycle-checked and serialized through a single dependency lock
//     (depLock) shared by set-with-parent, set with Nx/Xx, set_parent,
//     expire, persist, and the delete batch inside del.
//
//   - Admission: MaxMemory and MaxKeys, when configured, reject a set
//     outright rather than evicting another entry to make room. There is
//     no LRU or other recency-based eviction in this package.
//
//   - Expiration: TTLs are checked lazily on Get and Exists. A
//     CleanupExpired pass additionally samples a rotating window of one
//     shard per call and deletes whatever in that window has expired,
//     bounding the per-call cost independently of cache size.
//
//   - Metrics: Config.Metrics receives Hit/Miss/Set/Delete/Invalidate/Size
//     signals; NoopMetrics is the default. Stats.Render also exposes a
//     fixed five-counter text format directly, independent of Metrics.
//
// Basic usage
//
//	c := cache.New(cache.DefaultConfig())
//	ttl := 30 * time.Second
//	c.Set("session:42", cache.NewString("alice"), cache.SetOptions{Ttl: &ttl})
//	if v, ok := c.Get("session:42"); ok {
//	    _ = v
//	}
//
// With a parent dependency
//
//	c.Set("user:1", cache.NewString("payload"), cache.SetOptions{})
//	parent := "user:1"
//	c.Set("user:1:profile", cache.NewString("derived"), cache.SetOptions{Parent: &parent})
//	c.Delete("user:1")
//	_, ok := c.Get("user:1:profile") // ok == false, invalidated via its parent
package cache
