// Package oteladapters connects the voxelspace observability interfaces to OpenTelemetry.
//
// Three adapters cover the engine's hooks:
//   - SlogBridgeLogger and OTelLogger implement voxelspace.ContextualLogger
//   - MetricsCollector implements voxelspace.ContextualMetricsCollector with histograms, counters and gauges
//   - TracingCollector implements voxelspace.TracingCollector with spans from an OpenTelemetry tracer
//
// Usage:
//
//	engine, err := placement.NewEngine(
//		placement.WithContextualLogger(oteladapters.NewSlogBridgeLogger("cubecad")),
//		placement.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("cubecad"))),
//		placement.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("cubecad"))),
//	)
package oteladapters
