package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Persist outcomes recorded per cart store target.
const (
	OutcomeSaved   = "saved"
	OutcomeDeleted = "deleted"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// CartMetrics records background cart persistence and load fallbacks.
type CartMetrics struct {
	persist   *prometheus.CounterVec
	fallbacks prometheus.Counter
	sessions  prometheus.Gauge
}

// NewCartMetrics registers the cart metrics on the provided registerer. A nil registerer
// yields a no-op recorder.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	persist := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_total",
		Help: "Cart persistence attempts by store target and outcome.",
	}, []string{"target", "outcome"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_remote_load_fallback_total",
		Help: "Account cart loads that fell back to the device store.",
	})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_sessions_active",
		Help: "Device cart sessions currently held in memory.",
	})
	reg.MustRegister(persist, fallbacks, sessions)
	return &CartMetrics{persist: persist, fallbacks: fallbacks, sessions: sessions}
}

// IncPersist counts one persistence attempt for target ("local" or "remote").
func (m *CartMetrics) IncPersist(target, outcome string) {
	if m == nil || m.persist == nil {
		return
	}
	m.persist.WithLabelValues(normalizeLabel(target), normalizeLabel(outcome)).Inc()
}

func (m *CartMetrics) IncRemoteFallback() {
	if m == nil || m.fallbacks == nil {
		return
	}
	m.fallbacks.Inc()
}

func (m *CartMetrics) SetSessions(n int) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Set(float64(n))
}

// CatalogMetrics records cache effectiveness and upstream latency for the game catalog.
type CatalogMetrics struct {
	cache    *prometheus.CounterVec
	upstream *prometheus.HistogramVec
}

func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_requests_total",
		Help: "Catalog cache lookups by operation and result.",
	}, []string{"operation", "result"})
	upstream := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_upstream_duration_seconds",
		Help:    "Duration of catalog source calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(cache, upstream)
	return &CatalogMetrics{cache: cache, upstream: upstream}
}

func (m *CatalogMetrics) IncCacheHit(operation string) {
	m.incCache(operation, "hit")
}

func (m *CatalogMetrics) IncCacheMiss(operation string) {
	m.incCache(operation, "miss")
}

func (m *CatalogMetrics) incCache(operation, result string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(operation), result).Inc()
}

// ObserveUpstream records how long a source call took, in seconds.
func (m *CatalogMetrics) ObserveUpstream(operation string, seconds float64) {
	if m == nil || m.upstream == nil {
		return
	}
	m.upstream.WithLabelValues(normalizeLabel(operation)).Observe(seconds)
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
