// Package prom adapts cache.Metrics to a real Prometheus registry, for
// services that want a scrape endpoint in addition to cache.Stats.Render's
// fixed-format text.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/riftcache/riftcache/cache"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	sets        prometheus.Counter
	deletes     prometheus.Counter
	invalidates *prometheus.CounterVec
	sizeEntries prometheus.Gauge
	sizeMemory  prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "sets_total",
			Help:        "Successful set operations",
			ConstLabels: constLabels,
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "deletes_total",
			Help:        "Keys removed by del or the sampled expirer",
			ConstLabels: constLabels,
		}),
		invalidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "invalidations_total",
				Help:        "Keys physically removed (lazy eviction, del, flush_all, sampled expirer), by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		sizeEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
		sizeMemory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_memory_bytes",
			Help:        "Estimated bytes of live entry payloads",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.sets, a.deletes, a.invalidates, a.sizeEntries, a.sizeMemory)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Set increments the successful-set counter.
func (a *Adapter) Set() { a.sets.Inc() }

// Delete adds n to the deletes counter.
func (a *Adapter) Delete(n int) { a.deletes.Add(float64(n)) }

// Invalidate increments the invalidations counter with a reason label.
func (a *Adapter) Invalidate(reason cache.InvalidateReason) {
	a.invalidates.WithLabelValues(reasonLabel(reason)).Inc()
}

// Size updates gauges for the number of entries and total memory usage.
func (a *Adapter) Size(entries int, memoryUsage int64) {
	a.sizeEntries.Set(float64(entries))
	a.sizeMemory.Set(float64(memoryUsage))
}

func reasonLabel(r cache.InvalidateReason) string {
	switch r {
	case cache.InvalidateExpired:
		return "expired"
	case cache.InvalidateCascade:
		return "cascade"
	default:
		return "manual"
	}
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
