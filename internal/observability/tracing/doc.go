// Package tracing provides OpenTelemetry tracing integration.
//
// The HTTP middleware opens a server span per request; StartSpan opens
// internal spans around discovery and research passes. Exporters are
// configured by the process through the global tracer provider.
//
//	func processModel(ctx context.Context) {
//	    ctx, span := tracing.StartSpan(ctx, "research.model")
//	    defer span.End()
//	}
package tracing
