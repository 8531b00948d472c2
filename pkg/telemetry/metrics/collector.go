package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and every metric the service
// records. All record methods are safe for concurrent use and are no-ops on
// a nil receiver.
type Collector struct {
	registry *prometheus.Registry

	connectionsAccepted prometheus.Counter
	connectionsRejected prometheus.Counter
	connectionsActive   prometheus.Gauge

	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	responseBytes   prometheus.Histogram

	frameErrors prometheus.Counter
}

// NewCollector creates and registers the service metrics. When registry is
// nil a fresh private registry is used.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		connectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_accepted_total",
			Help:      "Connections accepted and handed to a handler",
		}),
		connectionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_rejected_total",
			Help:      "Connections refused by the concurrency limiter",
		}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Currently open connections",
		}),

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Dispatched requests by outcome",
		}, []string{"outcome"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Dispatch latency",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
		responseBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "response_bytes",
			Help:      "Response payload size",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}),

		frameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_errors_total",
			Help:      "Malformed or over-limit frames",
		}),
	}

	registry.MustRegister(
		c.connectionsAccepted,
		c.connectionsRejected,
		c.connectionsActive,
		c.requestsTotal,
		c.requestDuration,
		c.responseBytes,
		c.frameErrors,
	)

	return c
}

// Registry returns the underlying registry for exposition.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ConnAccepted records a connection handed to a handler.
func (c *Collector) ConnAccepted() {
	if c == nil {
		return
	}
	c.connectionsAccepted.Inc()
	c.connectionsActive.Inc()
}

// ConnRejected records a connection refused by the limiter.
func (c *Collector) ConnRejected() {
	if c == nil {
		return
	}
	c.connectionsRejected.Inc()
}

// ConnClosed records a handler finishing with its connection.
func (c *Collector) ConnClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Dec()
}

// RequestObserved records one dispatched request.
func (c *Collector) RequestObserved(outcome string, duration time.Duration, responseBytes int) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(outcome).Inc()
	c.requestDuration.Observe(duration.Seconds())
	c.responseBytes.Observe(float64(responseBytes))
}

// FrameError records a malformed or over-limit frame.
func (c *Collector) FrameError() {
	if c == nil {
		return
	}
	c.frameErrors.Inc()
}
