// Package observability provides structured logging, Prometheus metrics
// and OpenTelemetry tracing for the API server and worker.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry HTTP span middleware
package observability
