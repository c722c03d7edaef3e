// Package agentstats is the optional Prometheus-backed statistics sink for
// the agent's tick loop. It exists to satisfy the redesign note that
// statistics collection must be an injectable sink rather than a field
// baked into every reactor: a nil *Metrics, or simply never constructing
// one, is a valid, fully-functional no-op configuration.
package agentstats

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors that report tick-loop activity. It
// implements reactor.StatsSink structurally, without importing pkg/reactor.
type Metrics struct {
	syncDuration   *prometheus.HistogramVec
	resumeDuration *prometheus.HistogramVec
	requests       *prometheus.CounterVec
	recalls        *prometheus.CounterVec
	failures       *prometheus.CounterVec
	reactorCount   prometheus.Gauge
	tickDuration   prometheus.Histogram
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// Default returns the package-level metrics instance registered with the
// global Prometheus registry. Collectors are built only once so that
// constructing more than one Agent in the same process (tests, multiple
// runs in one binary) never trips a duplicate-registration panic.
func Default() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics constructs a Metrics instance against reg. Pass a fresh
// *prometheus.Registry in tests that need isolated collectors; pass nil to
// use the global DefaultRegisterer. A registration error other than
// AlreadyRegisteredError panics, mirroring promauto's fail-fast semantics:
// a bad metric definition is a programming error, not a runtime condition.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	syncDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trex",
		Subsystem: "agent",
		Name:      "reactor_synchronize_seconds",
		Help:      "Time spent in a reactor's Synchronize call.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"reactor"})

	resumeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trex",
		Subsystem: "agent",
		Name:      "reactor_resume_seconds",
		Help:      "Time spent in a reactor's Resume call.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"reactor"})

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trex",
		Subsystem: "agent",
		Name:      "goal_requests_total",
		Help:      "Number of goal requests routed to a timeline's owning reactor.",
	}, []string{"timeline"})

	recalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trex",
		Subsystem: "agent",
		Name:      "goal_recalls_total",
		Help:      "Number of goal recalls routed to a timeline's owning reactor.",
	}, []string{"timeline"})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trex",
		Subsystem: "agent",
		Name:      "reactor_failures_total",
		Help:      "Number of times a reactor's Synchronize or Resume reported unrecoverable failure.",
	}, []string{"reactor", "phase"})

	reactorCount := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trex",
		Subsystem: "agent",
		Name:      "reactors",
		Help:      "Number of reactors assembled into the running agent.",
	})

	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trex",
		Subsystem: "agent",
		Name:      "tick_seconds",
		Help:      "Wall-clock time spent processing one tick, synchronize through quiescence.",
		Buckets:   prometheus.DefBuckets,
	})

	m := &Metrics{
		syncDuration:   syncDuration,
		resumeDuration: resumeDuration,
		requests:       requests,
		recalls:        recalls,
		failures:       failures,
		reactorCount:   reactorCount,
		tickDuration:   tickDuration,
	}

	registrations := []struct {
		collector prometheus.Collector
		reuse     func(prometheus.Collector)
	}{
		{syncDuration, func(existing prometheus.Collector) { m.syncDuration = existing.(*prometheus.HistogramVec) }},
		{resumeDuration, func(existing prometheus.Collector) { m.resumeDuration = existing.(*prometheus.HistogramVec) }},
		{requests, func(existing prometheus.Collector) { m.requests = existing.(*prometheus.CounterVec) }},
		{recalls, func(existing prometheus.Collector) { m.recalls = existing.(*prometheus.CounterVec) }},
		{failures, func(existing prometheus.Collector) { m.failures = existing.(*prometheus.CounterVec) }},
		{reactorCount, func(existing prometheus.Collector) { m.reactorCount = existing.(prometheus.Gauge) }},
		{tickDuration, func(existing prometheus.Collector) { m.tickDuration = existing.(prometheus.Histogram) }},
	}

	for _, r := range registrations {
		if err := reg.Register(r.collector); err != nil {
			already, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				panic(err)
			}
			r.reuse(already.ExistingCollector)
			continue
		}
	}

	return m
}

// ObserveSync and ObserveResume satisfy reactor.StatsSink.
func (m *Metrics) ObserveSync(reactorName string, d time.Duration) {
	if m == nil || m.syncDuration == nil {
		return
	}
	m.syncDuration.WithLabelValues(reactorName).Observe(d.Seconds())
}

func (m *Metrics) ObserveResume(reactorName string, d time.Duration) {
	if m == nil || m.resumeDuration == nil {
		return
	}
	m.resumeDuration.WithLabelValues(reactorName).Observe(d.Seconds())
}

func (m *Metrics) IncRequest(timeline string) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(timeline).Inc()
}

func (m *Metrics) IncRecall(timeline string) {
	if m == nil || m.recalls == nil {
		return
	}
	m.recalls.WithLabelValues(timeline).Inc()
}

func (m *Metrics) IncFailure(reactorName, phase string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(reactorName, phase).Inc()
}

func (m *Metrics) SetReactorCount(n int) {
	if m == nil || m.reactorCount == nil {
		return
	}
	m.reactorCount.Set(float64(n))
}

func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil || m.tickDuration == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}
