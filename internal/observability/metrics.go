package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationPrefix namespaces every meter and tracer of this service.
const InstrumentationPrefix = "spaces-control-plane/"

// Meter returns a meter for the given component.
func Meter(component string) metric.Meter {
	return otel.Meter(InstrumentationPrefix + component)
}

// Tracer returns a tracer for the given component.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(InstrumentationPrefix + component)
}
