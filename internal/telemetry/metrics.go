package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the counters and gauges editor components report to.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

type nopMetrics struct{}

func (nopMetrics) Add(string, uint64)   {}
func (nopMetrics) Store(string, uint64) {}

// NopMetrics discards every measurement.
func NopMetrics() Metrics { return nopMetrics{} }

// Registry is a Metrics backed by a Prometheus registry. Keys become metric
// names on first use: Add registers a counter, Store a gauge. A key used both
// ways keeps whichever kind it was registered as first and drops the other.
type Registry struct {
	registry *prometheus.Registry
	logger   Logger

	mu       sync.Mutex
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
}

// NewRegistry returns an empty registry with the Go runtime and process
// collectors installed.
func NewRegistry(logger Logger) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{
		registry: reg,
		logger:   logger,
		counters: make(map[string]prometheus.Counter),
		gauges:   make(map[string]prometheus.Gauge),
	}
}

func (r *Registry) Add(key string, delta uint64) {
	if counter := r.counter(key); counter != nil {
		counter.Add(float64(delta))
	}
}

func (r *Registry) Store(key string, value uint64) {
	if gauge := r.gauge(key); gauge != nil {
		gauge.Set(float64(value))
	}
}

func (r *Registry) counter(key string) prometheus.Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[key]; ok {
		return c
	}
	if _, taken := r.gauges[key]; taken {
		return nil
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: key, Help: key})
	if err := r.registry.Register(c); err != nil {
		r.logf("telemetry: register counter %s: %v", key, err)
		r.counters[key] = nil
		return nil
	}
	r.counters[key] = c
	return c
}

func (r *Registry) gauge(key string) prometheus.Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[key]; ok {
		return g
	}
	if _, taken := r.counters[key]; taken {
		return nil
	}
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: key, Help: key})
	if err := r.registry.Register(g); err != nil {
		r.logf("telemetry: register gauge %s: %v", key, err)
		r.gauges[key] = nil
		return nil
	}
	r.gauges[key] = g
	return g
}

func (r *Registry) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
