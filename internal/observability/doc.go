// Package observability provides structured logging and OpenTelemetry
// instrumentation handles for the spaces control plane.
//
// Loggers are zap-based. Metrics and traces go through the global
// OpenTelemetry providers; exporter wiring is left to the deployment, so
// without one the instruments are no-ops.
package observability
