package devtools

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus sink.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactivity").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus sink.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		if namespace != "" {
			c.Namespace = namespace
		}
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		if registry != nil {
			c.Registry = registry
		}
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reactivity",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a Sink that counts recorded events and scheduler flushes.
//
// Metrics collected:
//   - reactivity_tracks_total: dependency edges recorded, by op
//   - reactivity_triggers_total: effect notifications, by op
//   - reactivity_effects_stopped_total: effects stopped
//   - reactivity_flush_effects: effects run per scheduler flush
//   - reactivity_flush_budget_exceeded_total: flushes abandoned over budget
type Metrics struct {
	tracks         *prometheus.CounterVec
	triggers       *prometheus.CounterVec
	stops          prometheus.Counter
	flushSize      prometheus.Histogram
	budgetExceeded prometheus.Counter
}

// NewMetrics registers the sink's collectors. Registering twice on the same
// registry panics, as with any promauto collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		tracks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "tracks_total",
			Help:        "Total number of dependency edges recorded",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "triggers_total",
			Help:        "Total number of effect notifications caused by writes",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		stops: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "effects_stopped_total",
			Help:        "Total number of effects stopped",
			ConstLabels: config.ConstLabels,
		}),

		flushSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "flush_effects",
			Help:        "Number of effects run per scheduler flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),

		budgetExceeded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "flush_budget_exceeded_total",
			Help:        "Total number of scheduler flushes abandoned over budget",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Record implements Sink.
func (m *Metrics) Record(e Event) {
	switch e.Kind {
	case KindTrack:
		m.tracks.WithLabelValues(e.Op).Inc()
	case KindTrigger:
		m.triggers.WithLabelValues(e.Op).Inc()
	case KindStop:
		m.stops.Inc()
	}
}

// ObserveFlush records the size of one scheduler flush. Its signature
// matches scheduler.WithOnFlush.
func (m *Metrics) ObserveFlush(ran int) {
	m.flushSize.Observe(float64(ran))
}

// BudgetExceeded counts one abandoned flush.
func (m *Metrics) BudgetExceeded() {
	m.budgetExceeded.Inc()
}
