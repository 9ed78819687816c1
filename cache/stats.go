package cache

import (
	"fmt"
	"strings"

	"github.com/riftcache/riftcache/internal/util"
)

// Stats holds the cache's five atomic counters, mutated only through
// Cache methods. Each counter is cache-line padded since hits/misses
// in particular are written from every concurrent Get.
type Stats struct {
	hits        util.PaddedAtomicUint64
	misses      util.PaddedAtomicUint64
	sets        util.PaddedAtomicUint64
	deletes     util.PaddedAtomicUint64
	memoryUsage util.PaddedAtomicInt64
}

// Snapshot is an immutable point-in-time read of Stats.
type Snapshot struct {
	Hits        uint64
	Misses      uint64
	Sets        uint64
	Deletes     uint64
	MemoryUsage int64
}

func (s *Stats) snapshot() Snapshot {
	return Snapshot{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Sets:        s.sets.Load(),
		Deletes:     s.deletes.Load(),
		MemoryUsage: s.memoryUsage.Load(),
	}
}

func (s *Stats) addHit()            { s.hits.Add(1) }
func (s *Stats) addMiss()           { s.misses.Add(1) }
func (s *Stats) addSet()            { s.sets.Add(1) }
func (s *Stats) addDeletes(n int)   { s.deletes.Add(uint64(n)) }
func (s *Stats) addMemory(delta int) {
	if delta == 0 {
		return
	}
	s.memoryUsage.Add(int64(delta))
}
func (s *Stats) resetMemory() { s.memoryUsage.Store(0) }

type metricSpec struct {
	name  string
	help  string
	mtype string
	value func(Snapshot) string
}

// metricOrder is the fixed rendering order for the exposition text.
var metricOrder = []metricSpec{
	{"cache_hits_total", "Total number of cache hits.", "counter", func(s Snapshot) string { return fmt.Sprintf("%d", s.Hits) }},
	{"cache_misses_total", "Total number of cache misses.", "counter", func(s Snapshot) string { return fmt.Sprintf("%d", s.Misses) }},
	{"cache_sets_total", "Total number of successful set operations.", "counter", func(s Snapshot) string { return fmt.Sprintf("%d", s.Sets) }},
	{"cache_deletes_total", "Total number of keys removed.", "counter", func(s Snapshot) string { return fmt.Sprintf("%d", s.Deletes) }},
	{"cache_memory_usage_bytes", "Estimated bytes of live entry payloads.", "gauge", func(s Snapshot) string { return fmt.Sprintf("%d", s.MemoryUsage) }},
}

// Render produces Prometheus-style exposition text: for each metric, a
// HELP line, a TYPE line, and a sample line, in the fixed order
// hits/misses/sets/deletes/memory_usage.
func (s *Stats) Render() string {
	snap := s.snapshot()
	var b strings.Builder
	for _, m := range metricOrder {
		fmt.Fprintf(&b, "# HELP %s %s\n", m.name, m.help)
		fmt.Fprintf(&b, "# TYPE %s %s\n", m.name, m.mtype)
		fmt.Fprintf(&b, "%s %s\n", m.name, m.value(snap))
	}
	return b.String()
}
