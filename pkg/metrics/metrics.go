// Package metrics defines the Prometheus collectors shared by the site,
// the preview resolver, bundle reloads and static export.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures collector registration.
type Config struct {
	// Namespace prefixes every metric name (default: "reactatoms").
	Namespace string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Buckets are the request duration histogram buckets.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the collectors.
	// Default: a fresh prometheus.Registry, see New.
	Registry prometheus.Registerer
}

// Option configures Config.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// WithRegistry sets the registerer collectors are added to.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Gatherer serves /metrics. It is the registry passed in, when that
	// registry also implements prometheus.Gatherer.
	Gatherer prometheus.Gatherer

	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	previewResolves   *prometheus.CounterVec
	pageCache         *prometheus.CounterVec
	bundleReloads     *prometheus.CounterVec
	exportPages       *prometheus.CounterVec
	rateLimited       prometheus.Counter
	liveReloadClients prometheus.Gauge
}

// New registers the collectors. Without WithRegistry a private registry
// is created, so tests and multiple servers never collide.
func New(opts ...Option) *Metrics {
	config := Config{
		Namespace: "reactatoms",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(config.Registry)
	m := &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "HTTP requests by route pattern and status code",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		previewResolves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "preview",
			Name:        "resolutions_total",
			Help:        "Preview resolutions by result (hit or miss)",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		pageCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "site",
			Name:        "page_cache_total",
			Help:        "Rendered page cache lookups by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		bundleReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "bundle",
			Name:        "reloads_total",
			Help:        "Content bundle reloads by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		exportPages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "export",
			Name:        "pages_total",
			Help:        "Statically exported pages by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "http",
			Name:        "rate_limited_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: config.ConstLabels,
		}),

		liveReloadClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   "livereload",
			Name:        "clients",
			Help:        "Connected live reload websocket clients",
			ConstLabels: config.ConstLabels,
		}),
	}
	if g, ok := config.Registry.(prometheus.Gatherer); ok {
		m.Gatherer = g
	}
	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, status).Inc()
	m.requestDuration.WithLabelValues(route).Observe(seconds)
}

// PreviewResolved records a preview lookup. hit is false when the
// placeholder was returned.
func (m *Metrics) PreviewResolved(hit bool) {
	if m == nil {
		return
	}
	m.previewResolves.WithLabelValues(hitMiss(hit)).Inc()
}

// PageCacheLookup records a rendered page cache lookup.
func (m *Metrics) PageCacheLookup(hit bool) {
	if m == nil {
		return
	}
	m.pageCache.WithLabelValues(hitMiss(hit)).Inc()
}

// BundleReloaded records a reload attempt.
func (m *Metrics) BundleReloaded(err error) {
	if m == nil {
		return
	}
	m.bundleReloads.WithLabelValues(outcome(err)).Inc()
}

// PageExported records one exported page.
func (m *Metrics) PageExported(err error) {
	if m == nil {
		return
	}
	m.exportPages.WithLabelValues(outcome(err)).Inc()
}

// RateLimited records a rejected request.
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// LiveReloadClients adjusts the connected client gauge by delta.
func (m *Metrics) LiveReloadClients(delta int) {
	if m == nil {
		return
	}
	m.liveReloadClients.Add(float64(delta))
}

func hitMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
