// Package prom exports cache and arena metrics to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/poolcache/cache"
	"github.com/IvanBrykalov/poolcache/pool"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	evicts  *prometheus.CounterVec
	sizeEnt prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
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
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Cache evictions by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.sizeEnt)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict increments the eviction counter with a reason label.
func (a *Adapter) Evict(r cache.EvictReason) {
	a.evicts.WithLabelValues(r.String()).Inc()
}

// Size updates the resident entries gauge.
func (a *Adapter) Size(entries int) { a.sizeEnt.Set(float64(entries)) }

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)

// PoolAdapter implements pool.Metrics for a buddy arena.
type PoolAdapter struct {
	allocs prometheus.Counter
	frees  prometheus.Counter
	fails  prometheus.Counter
	inUse  prometheus.Gauge
}

// NewPool constructs a Prometheus adapter for arena metrics. Arguments as in New.
func NewPool(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *PoolAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	a := &PoolAdapter{
		allocs: counter("allocated_bytes_total", "Bytes handed out, counted in whole blocks"),
		frees:  counter("freed_bytes_total", "Bytes returned to the arena"),
		fails:  counter("alloc_failures_total", "Allocations that found no free block"),
		inUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "in_use_bytes",
			Help:        "Bytes currently reserved in the arena",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.allocs, a.frees, a.fails, a.inUse)
	return a
}

func (a *PoolAdapter) Alloc(bytes int) {
	a.allocs.Add(float64(bytes))
	a.inUse.Add(float64(bytes))
}

func (a *PoolAdapter) Free(bytes int) {
	a.frees.Add(float64(bytes))
	a.inUse.Sub(float64(bytes))
}

func (a *PoolAdapter) Fail() { a.fails.Inc() }

var _ pool.Metrics = (*PoolAdapter)(nil)
