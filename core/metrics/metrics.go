// Package metrics exposes Prometheus collectors for request dispatch and
// session persistence.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	Namespace string
	Buckets   []float64
	Registry  prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metric namespace. The default is "pagekit".
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// WithRegistry sets the registerer. The default is prometheus.DefaultRegisterer.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

// Collector records dispatch and session metrics.
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	sessionSaves    *prometheus.CounterVec
	saveDuration    prometheus.Histogram
}

// New registers the collectors. It panics if they are already registered.
func New(opts ...Option) *Collector {
	cfg := Config{
		Namespace: "pagekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Collector{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "dispatch",
			Name:      "requests_total",
			Help:      "Total number of dispatched requests",
		}, []string{"method", "route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "dispatch",
			Name:      "request_duration_seconds",
			Help:      "Request dispatch duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"method", "route"}),

		sessionSaves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "session",
			Name:      "saves_total",
			Help:      "Total number of session snapshot saves",
		}, []string{"result"}),

		saveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "session",
			Name:      "save_duration_seconds",
			Help:      "Session snapshot save duration in seconds",
			Buckets:   cfg.Buckets,
		}),
	}
}

// ObserveRequest records one dispatched request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveSessionSave records one snapshot save. It matches session.WithOnSave.
func (c *Collector) ObserveSessionSave(elapsed time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.sessionSaves.WithLabelValues(result).Inc()
	c.saveDuration.Observe(elapsed.Seconds())
}
