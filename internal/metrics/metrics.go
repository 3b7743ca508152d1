// metrics — Prometheus-метрики сервиса галереи:
// исходы и длительность запросов к апстриму профилей, попадания в кэш.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы запроса к апстриму.
const (
	OutcomeOK             = "ok"
	OutcomeTimeout        = "timeout"
	OutcomeAPIError       = "api_error"
	OutcomeTransportError = "transport_error"
	OutcomeCanceled       = "canceled"
)

// Результаты обращения к кэшу.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
	CacheError = "error"
)

// Metrics — набор коллекторов. Нулевой указатель допустим: методы становятся no-op.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
}

// New регистрирует коллекторы в reg (nil — prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "upstream_requests_total",
			Help:      "Requests to the profiles API by outcome.",
		}, []string{"outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gallery",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests to the profiles API.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "cache_lookups_total",
			Help:      "Profile cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.upstreamRequests, m.upstreamDuration, m.cacheLookups)

	return m
}

// ObserveUpstream фиксирует один запрос к апстриму.
func (m *Metrics) ObserveUpstream(outcome string, dur time.Duration) {
	if m == nil {
		return
	}

	m.upstreamRequests.WithLabelValues(outcome).Inc()
	m.upstreamDuration.WithLabelValues(outcome).Observe(dur.Seconds())
}

// ObserveCache фиксирует одно обращение к кэшу.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}

	m.cacheLookups.WithLabelValues(result).Inc()
}
