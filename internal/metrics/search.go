package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "homesearch"

// Search holds the engine metrics. A nil *Search records nothing.
type Search struct {
	Requests       *prometheus.CounterVec
	Duration       *prometheus.HistogramVec
	Cache          *prometheus.CounterVec
	SourceDuration *prometheus.HistogramVec
	SourceFailures *prometheus.CounterVec
	Aborts         *prometheus.CounterVec
}

// NewSearch creates unregistered engine metrics.
func NewSearch() *Search {
	return &Search{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search operations by operation and outcome",
		}, []string{"operation", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_total",
			Help:      "Result cache lookups and maintenance events",
		}, []string{"result"}), // hit / miss / expired / evicted / skipped
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_duration_seconds",
			Help:      "Record source call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"source"}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Record source calls degraded to an empty result",
		}, []string{"source", "reason"}), // error / panic / rejected
		Aborts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_aborts_total",
			Help:      "Searches aborted by pipeline stage and error kind",
		}, []string{"stage", "kind"}),
	}
}

// Register registers every collector on reg. Collectors already registered
// under the same descriptor are reused, so several engines can share a registry.
func (m *Search) Register(reg prometheus.Registerer) error {
	if err := RegisterOrReuse(reg, &m.Requests); err != nil {
		return err
	}
	if err := RegisterOrReuse(reg, &m.Duration); err != nil {
		return err
	}
	if err := RegisterOrReuse(reg, &m.Cache); err != nil {
		return err
	}
	if err := RegisterOrReuse(reg, &m.SourceDuration); err != nil {
		return err
	}
	if err := RegisterOrReuse(reg, &m.SourceFailures); err != nil {
		return err
	}
	return RegisterOrReuse(reg, &m.Aborts)
}

// RegisterOrReuse registers *c on reg. If an equal collector is already registered,
// *c is replaced by it so every caller observes into the same series.
func RegisterOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}

// Default is the process-wide engine metrics set exposed on /metrics.
var Default = NewSearch()

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Default on the global registry. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	if err := Default.Register(prometheus.DefaultRegisterer); err != nil {
		panic(err)
	}
	searchMetricsRegistered = true
}

// ObserveRequest records one finished operation.
func (m *Search) ObserveRequest(op, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(op, status).Inc()
	m.Duration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveSource records one source call.
func (m *Search) ObserveSource(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.SourceDuration.WithLabelValues(source).Observe(d.Seconds())
}

// SourceFailed counts a degraded source call.
func (m *Search) SourceFailed(source, reason string) {
	if m == nil {
		return
	}
	m.SourceFailures.WithLabelValues(source, reason).Inc()
}

// Aborted counts a search aborted in stage with an error of kind.
func (m *Search) Aborted(stage, kind string) {
	if m == nil {
		return
	}
	m.Aborts.WithLabelValues(stage, kind).Inc()
}

// CacheCounter returns the cache counter vec, nil for a nil receiver.
func (m *Search) CacheCounter() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.Cache
}
