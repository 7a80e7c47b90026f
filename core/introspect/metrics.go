package introspect

import "github.com/xaliphostes/introspection/core/metrics"

// Metrics receives engine-level instrumentation events. Implementations
// must be safe for concurrent use. The zero configuration is a no-op; the
// adapters/prometheus package provides a real backend.
type Metrics interface {
	// DescriptorBuilt fires once per concrete type, when its descriptor is
	// first constructed.
	DescriptorBuilt(className string)
	// MemberRead and MemberWrite fire on successful facade member access.
	MemberRead(className string)
	MemberWrite(className string)
	// MethodCall fires when a facade method invocation starts; the returned
	// timer observes its duration.
	MethodCall(className, method string) metrics.Timer
	// Failure fires on a failed facade operation. kind is one of
	// "not_found", "type_mismatch", "arity_mismatch" or "other".
	Failure(className, kind string)
}

type nopMetrics struct{}

func (nopMetrics) DescriptorBuilt(string)                  {}
func (nopMetrics) MemberRead(string)                       {}
func (nopMetrics) MemberWrite(string)                      {}
func (nopMetrics) MethodCall(string, string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) Failure(string, string)                  {}

// NopMetrics returns the no-op Metrics implementation.
func NopMetrics() Metrics { return nopMetrics{} }
