package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the view engine's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "rview").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for build duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
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

// DefaultMetricsConfig returns the default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "rview",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records view engine activity. A nil *Metrics records nothing, so
// callers never need to check whether metrics are enabled.
type Metrics struct {
	viewsBuilt        *prometheus.CounterVec
	viewsLive         prometheus.Gauge
	buildDuration     *prometheus.HistogramVec
	patchesApplied    *prometheus.CounterVec
	listenersActive   prometheus.Gauge
	listenerStops     *prometheus.CounterVec
	hydrationFailures *prometheus.CounterVec
}

// NewMetrics registers the engine metrics and returns a recorder for them.
//
// Metrics collected:
//   - rview_views_built_total: Counter of materialized views by backend and mode
//   - rview_views_live: Gauge of views built and not yet disposed
//   - rview_build_duration_seconds: Histogram of root build/hydrate duration
//   - rview_patches_applied_total: Counter of patches applied by kind
//   - rview_listeners_active: Gauge of registered event listeners
//   - rview_listener_stops_total: Counter of listener removals by reason
//   - rview_hydration_failures_total: Counter of failed hydrations by error code
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := DefaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		viewsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "views_built_total",
			Help:        "Total number of views materialized",
			ConstLabels: config.ConstLabels,
		}, []string{"backend", "mode"}),

		viewsLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "views_live",
			Help:        "Number of views that are built and not yet disposed",
			ConstLabels: config.ConstLabels,
		}),

		buildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "build_duration_seconds",
			Help:        "Time to materialize a root view in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"backend", "mode"}),

		patchesApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_applied_total",
			Help:        "Total number of patches applied to live views",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		listenersActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners_active",
			Help:        "Number of registered event listeners",
			ConstLabels: config.ConstLabels,
		}),

		listenerStops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listener_stops_total",
			Help:        "Total number of event listeners removed, by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		hydrationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hydration_failures_total",
			Help:        "Total number of failed hydrations by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}
}

// Listener stop reasons.
const (
	StopDisposed = "disposed"
	StopClosed   = "closed"
	StopFull     = "full"
)

// ViewBuilt records one materialized view.
func (m *Metrics) ViewBuilt(backend, mode string) {
	if m == nil {
		return
	}
	m.viewsBuilt.WithLabelValues(backend, mode).Inc()
	m.viewsLive.Inc()
}

// ViewDisposed records one disposed view.
func (m *Metrics) ViewDisposed() {
	if m == nil {
		return
	}
	m.viewsLive.Dec()
}

// ObserveBuild records how long a root build took.
func (m *Metrics) ObserveBuild(backend, mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.WithLabelValues(backend, mode).Observe(d.Seconds())
}

// PatchApplied records one applied patch of the given kind.
func (m *Metrics) PatchApplied(kind string) {
	if m == nil {
		return
	}
	m.patchesApplied.WithLabelValues(kind).Inc()
}

// ListenerAdded records a registered listener.
func (m *Metrics) ListenerAdded() {
	if m == nil {
		return
	}
	m.listenersActive.Inc()
}

// ListenerStopped records a removed listener.
func (m *Metrics) ListenerStopped(reason string) {
	if m == nil {
		return
	}
	m.listenersActive.Dec()
	m.listenerStops.WithLabelValues(reason).Inc()
}

// HydrationFailed records a failed hydration.
func (m *Metrics) HydrationFailed(code string) {
	if m == nil {
		return
	}
	m.hydrationFailures.WithLabelValues(code).Inc()
}
