package middleware

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/reactive"
	"github.com/vango-dev/pageroute/pkg/router"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "pageroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "pageroute",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the navigation metrics. Create one per registry.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	cachedPages        prometheus.Gauge
	streamClients      prometheus.Gauge
}

// NewMetrics registers the navigation metrics with the configured registry.
// It panics if they are already registered there.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation lifecycle duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of aborted navigations by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "code"}),

		cachedPages: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cached_pages",
			Help:        "Number of pages in the visited-page cache",
			ConstLabels: config.ConstLabels,
		}),

		streamClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stream_clients",
			Help:        "Number of connected cache stream clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates navigation middleware backed by a new Metrics.
func Prometheus(opts ...MetricsOption) router.Middleware {
	return NewMetrics(opts...).Middleware()
}

// Middleware returns navigation middleware recording count, duration and
// errors per route name.
func (m *Metrics) Middleware() router.Middleware {
	return router.MiddlewareFunc(func(ctx context.Context, nav *router.Navigation, next func(context.Context) error) error {
		route := nav.To.Name
		start := time.Now()

		err := next(ctx)

		m.navigationDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		status := "committed"
		if err != nil {
			status = "aborted"
			m.navigationErrors.WithLabelValues(route, errorCode(err)).Inc()
		}
		m.navigationsTotal.WithLabelValues(route, status).Inc()

		return err
	})
}

// errorCode returns the error code of err, keeping label cardinality bounded.
func errorCode(err error) string {
	var pe *errors.PagerouteError
	if stderrors.As(err, &pe) && pe.Code != "" {
		return pe.Code
	}
	return "unknown"
}

// ObserveCache keeps the cached pages gauge in sync with the cache.
func (m *Metrics) ObserveCache(cache *router.PageCache) *reactive.Subscription {
	return cache.Stream().Subscribe(func(pages []router.Location) {
		m.cachedPages.Set(float64(len(pages)))
	})
}

// StreamClientConnected records a cache stream client connecting.
func (m *Metrics) StreamClientConnected() {
	m.streamClients.Inc()
}

// StreamClientDisconnected records a cache stream client leaving.
func (m *Metrics) StreamClientDisconnected() {
	m.streamClients.Dec()
}
