package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector collects and exposes transfer metrics
type Collector struct {
	registry     *prometheus.Registry
	objectsTotal *prometheus.CounterVec
	bytesTotal   prometheus.Counter
	duration     prometheus.Histogram
}

// New creates a new metrics collector with its own registry
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		objectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfer_objects_total",
				Help: "Total number of assets processed",
			},
			[]string{"status"},
		),
		bytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "transfer_bytes_total",
				Help: "Total bytes transferred",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transfer_object_duration_seconds",
				Help:    "Time taken to transfer one asset",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	c.registry.MustRegister(c.objectsTotal)
	c.registry.MustRegister(c.bytesTotal)
	c.registry.MustRegister(c.duration)

	return c
}

// IncSuccess increments the successful asset counter
func (c *Collector) IncSuccess() {
	c.objectsTotal.WithLabelValues("success").Inc()
}

// IncFailed increments the failed asset counter
func (c *Collector) IncFailed() {
	c.objectsTotal.WithLabelValues("failed").Inc()
}

// AddBytes adds to total bytes transferred
func (c *Collector) AddBytes(bytes int64) {
	c.bytesTotal.Add(float64(bytes))
}

// ObserveDuration observes one asset transfer duration
func (c *Collector) ObserveDuration(d time.Duration) {
	c.duration.Observe(d.Seconds())
}

// Handler returns an HTTP handler serving the collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server. It blocks until the
// server stops, so callers run it in a goroutine.
func (c *Collector) StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return http.ListenAndServe(addr, mux)
}
