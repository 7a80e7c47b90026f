package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xaliphostes/introspection/core/introspect"
	"github.com/xaliphostes/introspection/core/metrics"
)

// introspectMetrics implements introspect.Metrics using Prometheus.
type introspectMetrics struct {
	descriptorBuilds *prometheus.CounterVec
	memberReads      *prometheus.CounterVec
	memberWrites     *prometheus.CounterVec
	callDuration     *prometheus.HistogramVec
	failures         *prometheus.CounterVec
}

// NewIntrospectMetrics creates a Prometheus implementation of
// introspect.Metrics and registers its collectors with reg.
func NewIntrospectMetrics(reg prometheus.Registerer) introspect.Metrics {
	m := &introspectMetrics{
		descriptorBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "introspect_descriptor_builds_total",
			Help: "Total number of type descriptors built",
		}, []string{"class"}),

		memberReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "introspect_member_reads_total",
			Help: "Total number of successful reflective member reads",
		}, []string{"class"}),

		memberWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "introspect_member_writes_total",
			Help: "Total number of successful reflective member writes",
		}, []string{"class"}),

		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "introspect_method_call_duration_seconds",
			Help:    "Reflective method invocation latency in seconds",
			Buckets: defaultBuckets,
		}, []string{"class", "method"}),

		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "introspect_failures_total",
			Help: "Total number of failed reflective operations by kind",
		}, []string{"class", "kind"}),
	}

	reg.MustRegister(
		m.descriptorBuilds,
		m.memberReads,
		m.memberWrites,
		m.callDuration,
		m.failures,
	)
	return m
}

func (m *introspectMetrics) DescriptorBuilt(className string) {
	m.descriptorBuilds.WithLabelValues(className).Inc()
}

func (m *introspectMetrics) MemberRead(className string) {
	m.memberReads.WithLabelValues(className).Inc()
}

func (m *introspectMetrics) MemberWrite(className string) {
	m.memberWrites.WithLabelValues(className).Inc()
}

func (m *introspectMetrics) MethodCall(className, method string) metrics.Timer {
	return newTimer(m.callDuration.WithLabelValues(className, method))
}

func (m *introspectMetrics) Failure(className, kind string) {
	m.failures.WithLabelValues(className, kind).Inc()
}

var _ introspect.Metrics = (*introspectMetrics)(nil)
