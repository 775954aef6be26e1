package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hart").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for phase durations.
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
		Namespace: "hart",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for one or more render roots.
// Create it once per registry; registering the same names twice panics.
type Metrics struct {
	passesTotal   *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	opsTotal      *prometheus.CounterVec
	components    *prometheus.CounterVec
	domNodes      *prometheus.CounterVec
	deferredTasks prometheus.Counter
	arenaNodes    prometheus.Gauge
	hookEntries   prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
//
// Metrics collected:
//   - hart_passes_total: render passes by result (mount, patch, error)
//   - hart_pass_phase_seconds: time spent per phase (build, diff, patch)
//   - hart_ops_total: change operations applied, by type
//   - hart_components_total: component calls, by outcome (rendered, reused)
//   - hart_dom_nodes_total: DOM work, by action (created, moved)
//   - hart_deferred_unmounts_total: unmount tasks scheduled
//   - hart_arena_nodes: concrete nodes retained after the last pass
//   - hart_hook_entries: hook entries retained after the last pass
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		phaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_phase_seconds",
			Help:        "Render pass phase duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"phase"}),

		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ops_total",
			Help:        "Total number of change operations applied",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		components: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_total",
			Help:        "Total number of component calls",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		domNodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dom_nodes_total",
			Help:        "Total DOM node writes",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		deferredTasks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "deferred_unmounts_total",
			Help:        "Total number of unmount tasks scheduled",
			ConstLabels: config.ConstLabels,
		}),

		arenaNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "arena_nodes",
			Help:        "Concrete nodes retained after the last pass",
			ConstLabels: config.ConstLabels,
		}),

		hookEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hook_entries",
			Help:        "Hook entries retained after the last pass",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObservePass records p.
func (m *Metrics) ObservePass(p *Pass) {
	m.passesTotal.WithLabelValues(p.Result()).Inc()

	m.phaseDuration.WithLabelValues("build").Observe(p.Build.Seconds())
	if p.Err != nil {
		return
	}
	if !p.Mount {
		m.phaseDuration.WithLabelValues("diff").Observe(p.Diff.Seconds())
	}
	m.phaseDuration.WithLabelValues("patch").Observe(p.Patch.Seconds())

	for typ, n := range CountOps(p.Ops) {
		m.opsTotal.WithLabelValues(typ).Add(float64(n))
	}
	m.components.WithLabelValues("rendered").Add(float64(p.Renders))
	m.components.WithLabelValues("reused").Add(float64(p.Reused))
	m.domNodes.WithLabelValues("created").Add(float64(p.Created))
	m.domNodes.WithLabelValues("moved").Add(float64(p.Moved))
	m.deferredTasks.Add(float64(p.Unmounts))

	m.arenaNodes.Set(float64(p.Nodes))
	m.hookEntries.Set(float64(p.Entries))
}
