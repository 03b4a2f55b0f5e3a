package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vhead/pkg/dom"
	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/ssr"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vhead").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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
		Namespace: "vhead",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the collectors registered on one registry.
type metrics struct {
	reducesTotal        prometheus.Counter
	reduceDuration      prometheus.Histogram
	declarations        prometheus.Gauge
	stateTags           *prometheus.GaugeVec
	commitsTotal        *prometheus.CounterVec
	commitDuration      prometheus.Histogram
	tagsAdded           *prometheus.CounterVec
	tagsRemoved         *prometheus.CounterVec
	materializeDuration prometheus.Histogram
}

// Collectors are shared per registerer so that several observers (one per
// request, for instance) never register the same metric twice.
var (
	registeredMetrics   = map[prometheus.Registerer]*metrics{}
	registeredMetricsMu sync.Mutex
)

func metricsFor(config MetricsConfig) *metrics {
	registeredMetricsMu.Lock()
	defer registeredMetricsMu.Unlock()

	if m, ok := registeredMetrics[config.Registry]; ok {
		return m
	}
	m := initMetrics(config)
	registeredMetrics[config.Registry] = m
	return m
}

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		reducesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reduces_total",
			Help:        "Total number of head state reductions",
			ConstLabels: config.ConstLabels,
		}),

		reduceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reduce_duration_seconds",
			Help:        "Head state reduction duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		declarations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "declarations",
			Help:        "Number of declarations in the last reduction",
			ConstLabels: config.ConstLabels,
		}),

		stateTags: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_tags",
			Help:        "Number of tags per category in the last reduced state",
			ConstLabels: config.ConstLabels,
		}, []string{"category"}),

		commitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Total number of commits to the live document",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Live document commit duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		tagsAdded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tags_added_total",
			Help:        "Total number of tags inserted into the live document",
			ConstLabels: config.ConstLabels,
		}, []string{"category"}),

		tagsRemoved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tags_removed_total",
			Help:        "Total number of tags removed from the live document",
			ConstLabels: config.ConstLabels,
		}, []string{"category"}),

		materializeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "materialize_duration_seconds",
			Help:        "Server state materialization duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// PrometheusObserver records head activity as Prometheus metrics.
// It implements vhead.Observer.
type PrometheusObserver struct {
	m *metrics
}

// Prometheus creates an observer that collects Prometheus metrics.
//
// Metrics collected:
//   - vhead_reduces_total: Counter of state reductions
//   - vhead_reduce_duration_seconds: Histogram of reduction duration
//   - vhead_declarations: Gauge of declarations in the last reduction
//   - vhead_state_tags: Gauge of reduced tags by category
//   - vhead_commits_total: Counter of commits by result (changed, unchanged)
//   - vhead_commit_duration_seconds: Histogram of commit duration
//   - vhead_tags_added_total / vhead_tags_removed_total: Counters by category
//   - vhead_materialize_duration_seconds: Histogram of SSR mapping duration
//
// Example:
//
//	h := vhead.New(vhead.Config{
//	    Observer: middleware.Prometheus(middleware.WithNamespace("site")),
//	})
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) *PrometheusObserver {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &PrometheusObserver{m: metricsFor(config)}
}

// Reduced records one reduction.
func (p *PrometheusObserver) Reduced(state *head.State, n int, elapsed time.Duration) {
	p.m.reducesTotal.Inc()
	p.m.reduceDuration.Observe(elapsed.Seconds())
	p.m.declarations.Set(float64(n))
	for _, c := range head.TagCategories {
		p.m.stateTags.WithLabelValues(string(c)).Set(float64(len(state.Tags(c))))
	}
}

// Committed records one commit and its tag changes.
func (p *PrometheusObserver) Committed(cs dom.ChangeSet, elapsed time.Duration) {
	result := "changed"
	if cs.Empty() {
		result = "unchanged"
	}
	p.m.commitsTotal.WithLabelValues(result).Inc()
	p.m.commitDuration.Observe(elapsed.Seconds())

	for c, nodes := range cs.Added {
		p.m.tagsAdded.WithLabelValues(string(c)).Add(float64(len(nodes)))
	}
	for c, nodes := range cs.Removed {
		p.m.tagsRemoved.WithLabelValues(string(c)).Add(float64(len(nodes)))
	}
}

// Materialized records one server state mapping.
func (p *PrometheusObserver) Materialized(_ *ssr.State, elapsed time.Duration) {
	p.m.materializeDuration.Observe(elapsed.Seconds())
}
