package cache

import "time"

// Entry is a stored value plus optional TTL, optional parent key, and
// access metadata.
type Entry struct {
	Value        Value
	Ttl          *Ttl
	Parent       *string
	AccessCount  uint64
	LastAccessed time.Time
	CreatedAt    time.Time
}

// newEntry constructs a fresh Entry with zeroed access metadata.
func newEntry(value Value, ttl *Ttl, parent *string, now time.Time) *Entry {
	return &Entry{
		Value:        value,
		Ttl:          ttl,
		Parent:       parent,
		AccessCount:  0,
		LastAccessed: now,
		CreatedAt:    now,
	}
}

// markAccessed increments the access counter, updates LastAccessed, and
// resets the TTL if it is sliding. Callers must hold the entry's shard
// lock for the duration of this call.
func (e *Entry) markAccessed(now time.Time) {
	e.AccessCount++
	e.LastAccessed = now
	if e.Ttl != nil {
		e.Ttl.Reset(now)
	}
}

// memoryUsage is the best-effort byte accounting for this entry: the
// struct's own scalar fields are ignored (matching the design's focus on
// heap-held payload bytes), and the value's and parent key's payload
// bytes are added.
func (e *Entry) memoryUsage() int {
	size := e.Value.MemoryUsage()
	if e.Parent != nil {
		size += len(*e.Parent)
	}
	return size
}

// selfExpired reports whether this entry's own Ttl (ignoring parents) has
// expired as of now.
func (e *Entry) selfExpired(now time.Time) bool {
	return e.Ttl != nil && e.Ttl.IsExpired(now)
}
