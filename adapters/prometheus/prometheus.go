// Package prometheus provides the Prometheus implementation of the
// introspection engine's metrics interfaces.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xaliphostes/introspection/core/metrics"
)

// timer wraps a Prometheus observer to implement the Timer interface.
type timer struct {
	h     prometheus.Observer
	start time.Time
}

func newTimer(h prometheus.Observer) metrics.Timer {
	return &timer{h: h, start: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.h.Observe(time.Since(t.start).Seconds())
}

// NewGauge creates a Prometheus gauge and registers it with reg. The
// returned value satisfies the engine's Gauge interface directly.
func NewGauge(reg prometheus.Registerer, name, help string) metrics.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	reg.MustRegister(g)
	return g
}

// Default histogram buckets for call latency metrics (in seconds).
// Reflective calls are sub-millisecond; the low buckets carry the signal.
var defaultBuckets = []float64{
	.000001, .0000025, .000005, .00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005, .01,
}
