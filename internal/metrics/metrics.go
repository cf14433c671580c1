// Package metrics exposes compile and cache counters through a dedicated
// Prometheus registry. Metrics implements compiler.Observer and
// qcache.Observer.
package metrics

import (
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/condex/internal/compiler"
)

// Config controls the registry.
type Config struct {
	// ServiceName is attached to every metric as the "service" label.
	ServiceName string `yaml:"service_name" json:"service_name"`

	// EnableDefaultCollectors registers the Go and process collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" json:"enable_default_collectors"`
}

// Metrics holds the registry and the condex collectors.
type Metrics struct {
	// Registry is isolated per instance to prevent metric name collisions.
	Registry *prometheus.Registry

	compilesTotal   *prometheus.CounterVec
	compileDuration *prometheus.HistogramVec
	degradedLeaves  *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// New builds a registry with the condex collectors registered.
func New(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()
	var reg prometheus.Registerer = registry
	if cfg.ServiceName != "" {
		reg = prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)
	}

	m := &Metrics{
		Registry: registry,
		compilesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condex_compiles_total",
			Help: "Condition trees compiled, by dialect and outcome.",
		}, []string{"dialect", "status"}),
		compileDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "condex_compile_duration_seconds",
			Help:    "Time spent compiling one condition tree.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"dialect"}),
		degradedLeaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condex_degraded_leaves_total",
			Help: "Leaf conditions that contributed nothing, by error code.",
		}, []string{"dialect", "code"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condex_cache_lookups_total",
			Help: "Compiled-query cache lookups, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.compilesTotal, m.compileDuration, m.degradedLeaves, m.cacheLookups)

	if cfg.EnableDefaultCollectors {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// CompileFinished implements compiler.Observer.
func (m *Metrics) CompileFinished(dialect string, elapsed time.Duration, degraded int, err error) {
	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case degraded > 0:
		status = "degraded"
	}
	m.compilesTotal.WithLabelValues(dialect, status).Inc()
	m.compileDuration.WithLabelValues(dialect).Observe(elapsed.Seconds())
}

// LeafDegraded implements compiler.Observer.
func (m *Metrics) LeafDegraded(dialect string, code compiler.ErrorCode) {
	m.degradedLeaves.WithLabelValues(dialect, string(code)).Inc()
}

// CacheLookup implements qcache.Observer.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// WriteText writes every gathered metric family in the text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
